package affiliate

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is the canonical affiliate identity everything routes on.
type Tag string

const (
	TagMerban  Tag = "MERBAN"
	TagSDSL    Tag = "SDSL"
	TagSBL     Tag = "SBL"
	TagUnknown Tag = "UNKNOWN"
)

type Affiliate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_affiliate_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Canonicalize maps an affiliate name onto its tag. Matching is
// case-insensitive and "Merban" is a synonym for "Merban Capital".
// Anything outside the known set is UNKNOWN; callers must refuse to
// route UNKNOWN rather than guess.
func Canonicalize(name string) Tag {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "merban capital", "merban":
		return TagMerban
	case "sdsl":
		return TagSDSL
	case "sbl":
		return TagSBL
	default:
		return TagUnknown
	}
}

// Names returns the affiliate names a tag may appear under in storage.
func Names(tag Tag) []string {
	switch tag {
	case TagMerban:
		return []string{"Merban Capital", "Merban"}
	case TagSDSL:
		return []string{"SDSL"}
	case TagSBL:
		return []string{"SBL"}
	default:
		return nil
	}
}
