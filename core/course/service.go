package course

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/shule/core/profile"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		// DeleteCoursesByID also removes the courses' enrollment edges.
		DeleteCoursesByID(ctx context.Context, ids ...string) error

		// Enrollment edge set. The relation is stored exactly once per
		// (course, student) pair; ToggleEnrollment checks presence and
		// flips it in one atomic unit so concurrent toggles serialize.
		ToggleEnrollment(ctx context.Context, courseID, studentID string) (EnrollmentState, error)
		CourseIDsForStudent(ctx context.Context, studentID string) ([]string, error)
		StudentIDsForCourse(ctx context.Context, courseID string) ([]string, error)
	}

	// StudentDirectory resolves student profiles; satisfied by
	// profile.StudentRepository.
	StudentDirectory interface {
		GetStudentByID(ctx context.Context, id string) (profile.Student, error)
	}

	// TeacherDirectory resolves teacher profiles; satisfied by
	// profile.TeacherRepository.
	TeacherDirectory interface {
		GetTeacherByID(ctx context.Context, id string) (profile.Teacher, error)
	}

	Service struct {
		repo     Repository
		students StudentDirectory
		teachers TeacherDirectory
	}
)

func NewService(repo Repository, students StudentDirectory, teachers TeacherDirectory) *Service {
	return &Service{
		repo:     repo,
		students: students,
		teachers: teachers,
	}
}

func (svc *Service) Create(ctx context.Context, nc NewCourse, teacherID string) (Course, error) {
	if teacherID != "" {
		if _, err := svc.teachers.GetTeacherByID(ctx, teacherID); err != nil {
			return Course{}, err
		}
	}
	now := time.Now().UTC()
	return svc.repo.CreateCourse(ctx, Course{
		Title:       nc.Title,
		Description: nc.Description,
		Credits:     nc.Credits,
		TeacherID:   teacherID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}

// Toggle flips the enrollment state of the (course, student) pair and
// reports the state that resulted. Every new pair starts unenrolled, so the
// first toggle enrolls and the second restores the original state.
func (svc *Service) Toggle(ctx context.Context, courseID, studentID string) (EnrollmentState, error) {
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return "", err
	}
	if _, err := svc.students.GetStudentByID(ctx, studentID); err != nil {
		return "", err
	}
	return svc.repo.ToggleEnrollment(ctx, courseID, studentID)
}

// WithEnrollment decorates courses with the acting student's enrollment
// flag. With no student context (teacher or anonymous caller) every flag is
// false.
func (svc *Service) WithEnrollment(ctx context.Context, courses []Course, studentID string) ([]CourseWithEnrollment, error) {
	enrolled := make(map[string]bool)
	if studentID != "" {
		ids, err := svc.repo.CourseIDsForStudent(ctx, studentID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			enrolled[id] = true
		}
	}

	decorated := make([]CourseWithEnrollment, 0, len(courses))
	for _, crs := range courses {
		decorated = append(decorated, CourseWithEnrollment{Course: crs, IsEnrolled: enrolled[crs.ID]})
	}
	return decorated, nil
}

// CoursesForStudent is the student-side view of the enrollment relation.
func (svc *Service) CoursesForStudent(ctx context.Context, studentID string) ([]Course, error) {
	if _, err := svc.students.GetStudentByID(ctx, studentID); err != nil {
		return nil, err
	}
	ids, err := svc.repo.CourseIDsForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	courses := make([]Course, 0, len(ids))
	for _, id := range ids {
		crs, err := svc.repo.GetCourseByID(ctx, id)
		if err != nil {
			return nil, err
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

// StudentsForCourse is the course-side view of the enrollment relation.
func (svc *Service) StudentsForCourse(ctx context.Context, courseID string) ([]profile.Student, error) {
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	ids, err := svc.repo.StudentIDsForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	students := make([]profile.Student, 0, len(ids))
	for _, id := range ids {
		std, err := svc.students.GetStudentByID(ctx, id)
		if err != nil {
			return nil, err
		}
		students = append(students, std)
	}
	return students, nil
}

// AssignTeacher sets the course's teacher reference; re-assignment is
// allowed and no workload limit applies.
func (svc *Service) AssignTeacher(ctx context.Context, courseID, teacherID string) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return Course{}, err
	}
	if _, err := svc.teachers.GetTeacherByID(ctx, teacherID); err != nil {
		return Course{}, err
	}
	crs.TeacherID = teacherID
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}
