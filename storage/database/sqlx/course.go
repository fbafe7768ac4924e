package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/course"
)

type courseRow struct {
	ID          string      `db:"id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Credits     int         `db:"credits"`
	TeacherID   null.String `db:"teacher_id"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func packCourse(crs course.Course) courseRow {
	return courseRow{
		ID:          crs.ID,
		Title:       crs.Title,
		Description: crs.Description,
		Credits:     crs.Credits,
		TeacherID:   null.NewString(crs.TeacherID, crs.TeacherID != ""),
		CreatedAt:   crs.CreatedAt,
		UpdatedAt:   crs.UpdatedAt,
	}
}

func (r courseRow) unpack() course.Course {
	return course.Course{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Credits:     r.Credits,
		TeacherID:   r.TeacherID.String,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	r := packCourse(crs)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO course (id, title, description, credits, teacher_id, created_at, updated_at)
		 VALUES (:id, :title, :description, :credits, :teacher_id, :created_at, :updated_at)`, r)
	if err != nil {
		return course.Course{}, wrapDBErr(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM course ORDER BY title`); err != nil {
		return nil, wrapDBErr(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.unpack())
	}
	return courses, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	var r courseRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, wrapDBErr(err, "getting course by id")
	}
	return r.unpack(), nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	r := packCourse(crs)
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE course SET title = :title, description = :description, credits = :credits,
		 teacher_id = :teacher_id, updated_at = :updated_at WHERE id = :id`, r)
	if err != nil {
		return course.Course{}, wrapDBErr(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

// DeleteCoursesByID deletes courses; their enrollment edges go with them via
// the FK cascade.
func (repo courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM course WHERE id IN (?)`, ids)
	if err != nil {
		return wrapDBErr(err, "deleting courses")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return wrapDBErr(err, "deleting courses")
	}
	return nil
}

// ToggleEnrollment flips the (course, student) edge in a single transaction.
// Delete-then-insert keeps the flip atomic: whichever statement touches a
// row decides the resulting state, and the composite PK guarantees at most
// one edge per pair survives concurrent toggles.
func (repo courseRepository) ToggleEnrollment(ctx context.Context, courseID, studentID string) (course.EnrollmentState, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", wrapDBErr(err, "beginning enrollment tx")
	}
	defer func() { _ = tx.Rollback() }()

	const deleteEdge = `DELETE FROM enrollment WHERE course_id = $1 AND student_id = $2`

	res, err := tx.ExecContext(ctx, deleteEdge, courseID, studentID)
	if err != nil {
		return "", wrapDBErr(err, "deleting enrollment")
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		if err = tx.Commit(); err != nil {
			return "", wrapDBErr(err, "committing enrollment tx")
		}
		return course.Unenrolled, nil
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO enrollment (course_id, student_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (course_id, student_id) DO NOTHING`,
		courseID, studentID, time.Now().UTC(),
	)
	if err != nil {
		return "", wrapDBErr(err, "inserting enrollment")
	}
	state := course.Enrolled
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// a concurrent toggle enrolled the pair after our delete; flip it off
		if _, err = tx.ExecContext(ctx, deleteEdge, courseID, studentID); err != nil {
			return "", wrapDBErr(err, "deleting enrollment")
		}
		state = course.Unenrolled
	}
	if err = tx.Commit(); err != nil {
		return "", wrapDBErr(err, "committing enrollment tx")
	}
	return state, nil
}

func (repo courseRepository) CourseIDsForStudent(ctx context.Context, studentID string) ([]string, error) {
	ids := make([]string, 0)
	err := repo.db.SelectContext(ctx, &ids,
		`SELECT course_id FROM enrollment WHERE student_id = $1 ORDER BY course_id`, studentID)
	if err != nil {
		return nil, wrapDBErr(err, "querying student enrollments")
	}
	return ids, nil
}

func (repo courseRepository) StudentIDsForCourse(ctx context.Context, courseID string) ([]string, error) {
	ids := make([]string, 0)
	err := repo.db.SelectContext(ctx, &ids,
		`SELECT student_id FROM enrollment WHERE course_id = $1 ORDER BY student_id`, courseID)
	if err != nil {
		return nil, wrapDBErr(err, "querying course roster")
	}
	return ids, nil
}
