package domain

import "time"

// Process is a named script kept in the database and mirrored to an external
// code host by the backup task. Code is the unique key and doubles as the
// remote filename; it never changes once assigned.
type Process struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Script    string    `json:"script"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
