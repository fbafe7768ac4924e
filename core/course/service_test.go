package course_test

import (
	"context"
	"testing"

	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/profile"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

type fixture struct {
	svc      *course.Service
	students profile.StudentRepository
	teachers profile.TeacherRepository
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	students := dummydb.NewStudentRepository(db)
	teachers := dummydb.NewTeacherRepository(db)
	return fixture{
		svc:      course.NewService(dummydb.NewCourseRepository(db), students, teachers),
		students: students,
		teachers: teachers,
	}
}

func (f fixture) createStudent(t *testing.T, name string) profile.Student {
	t.Helper()
	std, err := f.students.CreateStudent(context.Background(), profile.Student{Name: name, Email: name + "@test.cd"})
	if err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}
	return std
}

func (f fixture) createTeacher(t *testing.T, name string) profile.Teacher {
	t.Helper()
	tch, err := f.teachers.CreateTeacher(context.Background(), profile.Teacher{Name: name, Email: name + "@test.cd"})
	if err != nil {
		t.Fatalf("CreateTeacher(): %v", err)
	}
	return tch
}

func (f fixture) createCourse(t *testing.T, title string) course.Course {
	t.Helper()
	crs, err := f.svc.Create(context.Background(), course.NewCourse{Title: title}, "")
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	return crs
}

func TestService_Toggle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs := f.createCourse(t, "Algebra")
	std := f.createStudent(t, "anna")

	// every new pair starts unenrolled; the first toggle enrolls
	state, err := f.svc.Toggle(ctx, crs.ID, std.ID)
	if err != nil {
		t.Fatalf("Toggle(): %v", err)
	}
	if state != course.Enrolled {
		t.Errorf("Toggle() state = %v, want %v", state, course.Enrolled)
	}

	// the second toggle restores the original state
	state, err = f.svc.Toggle(ctx, crs.ID, std.ID)
	if err != nil {
		t.Fatalf("Toggle(): %v", err)
	}
	if state != course.Unenrolled {
		t.Errorf("Toggle() state = %v, want %v", state, course.Unenrolled)
	}

	// and a third enrolls again
	if state, _ = f.svc.Toggle(ctx, crs.ID, std.ID); state != course.Enrolled {
		t.Errorf("Toggle() state = %v, want %v", state, course.Enrolled)
	}

	// unknown references
	if _, err = f.svc.Toggle(ctx, "nope", std.ID); err != course.ErrNotFound {
		t.Errorf("Toggle() error = %v, want %v", err, course.ErrNotFound)
	}
	if _, err = f.svc.Toggle(ctx, crs.ID, "nope"); err != profile.ErrStudentNotFound {
		t.Errorf("Toggle() error = %v, want %v", err, profile.ErrStudentNotFound)
	}
}

// both derived views of the relation must always agree.
func TestService_enrollmentViewsAgree(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	algebra := f.createCourse(t, "Algebra")
	biology := f.createCourse(t, "Biology")
	anna := f.createStudent(t, "anna")
	bob := f.createStudent(t, "bob")

	mustToggle := func(courseID, studentID string) {
		t.Helper()
		if _, err := f.svc.Toggle(ctx, courseID, studentID); err != nil {
			t.Fatalf("Toggle(): %v", err)
		}
	}
	mustToggle(algebra.ID, anna.ID)
	mustToggle(algebra.ID, bob.ID)
	mustToggle(biology.ID, anna.ID)
	mustToggle(biology.ID, bob.ID)
	mustToggle(biology.ID, bob.ID) // bob leaves biology

	courses, err := f.svc.CoursesForStudent(ctx, anna.ID)
	if err != nil {
		t.Fatalf("CoursesForStudent(): %v", err)
	}
	if len(courses) != 2 {
		t.Errorf("CoursesForStudent() returned %d courses, want 2", len(courses))
	}

	students, err := f.svc.StudentsForCourse(ctx, biology.ID)
	if err != nil {
		t.Fatalf("StudentsForCourse(): %v", err)
	}
	if len(students) != 1 || students[0].ID != anna.ID {
		t.Errorf("StudentsForCourse() = %v, want [%v]", students, anna.ID)
	}

	// course side of algebra mirrors the student sides
	students, err = f.svc.StudentsForCourse(ctx, algebra.ID)
	if err != nil {
		t.Fatalf("StudentsForCourse(): %v", err)
	}
	if len(students) != 2 {
		t.Errorf("StudentsForCourse() returned %d students, want 2", len(students))
	}
}

func TestService_WithEnrollment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	algebra := f.createCourse(t, "Algebra")
	biology := f.createCourse(t, "Biology")
	anna := f.createStudent(t, "anna")

	if _, err := f.svc.Toggle(ctx, algebra.ID, anna.ID); err != nil {
		t.Fatalf("Toggle(): %v", err)
	}

	courses, err := f.svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll(): %v", err)
	}

	decorated, err := f.svc.WithEnrollment(ctx, courses, anna.ID)
	if err != nil {
		t.Fatalf("WithEnrollment(): %v", err)
	}
	flags := make(map[string]bool, len(decorated))
	for _, crs := range decorated {
		flags[crs.ID] = crs.IsEnrolled
	}
	if !flags[algebra.ID] || flags[biology.ID] {
		t.Errorf("WithEnrollment() flags = %v", flags)
	}

	// no student context: all flags down
	decorated, err = f.svc.WithEnrollment(ctx, courses, "")
	if err != nil {
		t.Fatalf("WithEnrollment(): %v", err)
	}
	for _, crs := range decorated {
		if crs.IsEnrolled {
			t.Errorf("WithEnrollment() course %v flagged enrolled without student context", crs.ID)
		}
	}
}

func TestService_Create_teacherAttribution(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tch := f.createTeacher(t, "mr_t")

	crs, err := f.svc.Create(ctx, course.NewCourse{Title: "Algebra", Credits: 3}, tch.ID)
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if crs.TeacherID != tch.ID {
		t.Errorf("Create() teacherID = %v, want %v", crs.TeacherID, tch.ID)
	}

	if _, err = f.svc.Create(ctx, course.NewCourse{Title: "Biology"}, "nope"); err != profile.ErrTeacherNotFound {
		t.Errorf("Create() error = %v, want %v", err, profile.ErrTeacherNotFound)
	}
}

func TestService_AssignTeacher(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs := f.createCourse(t, "Algebra")
	t1 := f.createTeacher(t, "mr_t")
	t2 := f.createTeacher(t, "ms-u")

	crs, err := f.svc.AssignTeacher(ctx, crs.ID, t1.ID)
	if err != nil {
		t.Fatalf("AssignTeacher(): %v", err)
	}
	if crs.TeacherID != t1.ID {
		t.Errorf("AssignTeacher() teacherID = %v, want %v", crs.TeacherID, t1.ID)
	}

	// re-assignment is allowed
	crs, err = f.svc.AssignTeacher(ctx, crs.ID, t2.ID)
	if err != nil {
		t.Fatalf("AssignTeacher(): %v", err)
	}
	if crs.TeacherID != t2.ID {
		t.Errorf("AssignTeacher() teacherID = %v, want %v", crs.TeacherID, t2.ID)
	}

	if _, err = f.svc.AssignTeacher(ctx, crs.ID, "nope"); err != profile.ErrTeacherNotFound {
		t.Errorf("AssignTeacher() error = %v, want %v", err, profile.ErrTeacherNotFound)
	}
	if _, err = f.svc.AssignTeacher(ctx, "nope", t1.ID); err != course.ErrNotFound {
		t.Errorf("AssignTeacher() error = %v, want %v", err, course.ErrNotFound)
	}
}

func TestService_Delete_removesEdges(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs := f.createCourse(t, "Algebra")
	std := f.createStudent(t, "anna")
	if _, err := f.svc.Toggle(ctx, crs.ID, std.ID); err != nil {
		t.Fatalf("Toggle(): %v", err)
	}

	if err := f.svc.Delete(ctx, crs.ID); err != nil {
		t.Fatalf("Delete(): %v", err)
	}

	ids, err := f.svc.CoursesForStudent(ctx, std.ID)
	if err != nil {
		t.Fatalf("CoursesForStudent(): %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("CoursesForStudent() returned %d courses after delete, want 0", len(ids))
	}
}
