package department

import "time"

// Department is a named grouping for students and teachers. Names are
// unique and case-sensitive; rows are created lazily and never deleted by
// normal flows.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
