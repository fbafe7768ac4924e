package course

import (
	"time"

	"github.com/trezcool/shule/core"
)

// Course is a taught unit. The enrollment relation to students is NOT held
// on the model: it is stored once as an edge set at the repository level
// and exposed through derived views, so both sides can never disagree.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Credits     int       `json:"credits"`
	TeacherID   string    `json:"teacher_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// EnrollmentState is the outcome of a Toggle; both values are successes.
type EnrollmentState string

const (
	Enrolled   EnrollmentState = "ENROLLED"
	Unenrolled EnrollmentState = "UNENROLLED"
)

// CourseWithEnrollment decorates a Course with the acting student's
// enrollment flag for listing screens.
type CourseWithEnrollment struct {
	Course
	IsEnrolled bool `json:"is_enrolled"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"omitempty"`
	Credits     int    `json:"credits" validate:"omitempty,gte=0"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}
