package capture

import "time"

// Photo is a committed full-resolution capture held in a session slot.
// Photos only appear through a successful commit and only disappear
// through an explicit delete.
type Photo struct {
	ID      string    `json:"id"`
	Slot    int       `json:"slot"`
	TakenAt time.Time `json:"taken_at"`

	// Data is the JPEG payload. Handed off opaquely to the upload
	// collaborator; the coordinator never re-reads it.
	Data []byte `json:"-"`
}
