package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Run is the metadata of one successful draw. It never holds pairs.
type Run struct {
	ID               uuid.UUID
	CreatedAt        time.Time
	Participants     int
	Families         int
	Attempts         int
	IntraFamilyPairs int
	MaxIntraFamily   int
	CapScope         string
	OutputDir        string
}

// View records the first time a giver opened their reveal link.
type View struct {
	RunID    uuid.UUID
	Giver    string
	ViewedAt time.Time
}
