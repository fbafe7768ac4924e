package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/profile"
)

type studentRow struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Email        string      `db:"email"`
	DepartmentID null.String `db:"department_id"`
	UserID       null.String `db:"user_id"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func packStudent(std profile.Student) studentRow {
	return studentRow{
		ID:           std.ID,
		Name:         std.Name,
		Email:        std.Email,
		DepartmentID: null.NewString(std.DepartmentID, std.DepartmentID != ""),
		UserID:       null.NewString(std.UserID, std.UserID != ""),
		CreatedAt:    std.CreatedAt,
		UpdatedAt:    std.UpdatedAt,
	}
}

func (r studentRow) unpack() profile.Student {
	return profile.Student{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		DepartmentID: r.DepartmentID.String,
		UserID:       r.UserID.String,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ profile.StudentRepository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CreateStudent(ctx context.Context, std profile.Student) (profile.Student, error) {
	std.ID = uuid.New().String()
	r := packStudent(std)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO student (id, name, email, department_id, user_id, created_at, updated_at)
		 VALUES (:id, :name, :email, :department_id, :user_id, :created_at, :updated_at)`, r)
	if err != nil {
		return profile.Student{}, wrapDBErr(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]profile.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student ORDER BY name`); err != nil {
		return nil, wrapDBErr(err, "querying students")
	}
	students := make([]profile.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.unpack())
	}
	return students, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (profile.Student, error) {
	var r studentRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return profile.Student{}, profile.ErrStudentNotFound
		}
		return profile.Student{}, wrapDBErr(err, "getting student by id")
	}
	return r.unpack(), nil
}

func (repo studentRepository) GetStudentByUserID(ctx context.Context, userID string) (profile.Student, error) {
	var r studentRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM student WHERE user_id = $1`, userID); err != nil {
		if err == sql.ErrNoRows {
			return profile.Student{}, profile.ErrStudentNotFound
		}
		return profile.Student{}, wrapDBErr(err, "getting student by user id")
	}
	return r.unpack(), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std profile.Student) (profile.Student, error) {
	r := packStudent(std)
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE student SET name = :name, email = :email, department_id = :department_id,
		 user_id = :user_id, updated_at = :updated_at WHERE id = :id`, r)
	if err != nil {
		return profile.Student{}, wrapDBErr(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return profile.Student{}, profile.ErrStudentNotFound
	}
	return std, nil
}

// DeleteStudentsByID deletes students; their enrollment edges go with them
// via the FK cascade.
func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return wrapDBErr(err, "deleting students")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return wrapDBErr(err, "deleting students")
	}
	return nil
}

type teacherRow struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Email        string      `db:"email"`
	DepartmentID null.String `db:"department_id"`
	UserID       null.String `db:"user_id"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (r teacherRow) unpack() profile.Teacher {
	return profile.Teacher{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		DepartmentID: r.DepartmentID.String,
		UserID:       r.UserID.String,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type teacherRepository struct {
	db *sqlx.DB
}

var _ profile.TeacherRepository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, tch profile.Teacher) (profile.Teacher, error) {
	tch.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO teacher (id, name, email, department_id, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tch.ID, tch.Name, tch.Email,
		null.NewString(tch.DepartmentID, tch.DepartmentID != ""),
		null.NewString(tch.UserID, tch.UserID != ""),
		tch.CreatedAt, tch.UpdatedAt,
	)
	if err != nil {
		return profile.Teacher{}, wrapDBErr(err, "inserting teacher")
	}
	return tch, nil
}

func (repo teacherRepository) QueryAllTeachers(ctx context.Context) ([]profile.Teacher, error) {
	var rows []teacherRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM teacher ORDER BY name`); err != nil {
		return nil, wrapDBErr(err, "querying teachers")
	}
	teachers := make([]profile.Teacher, 0, len(rows))
	for _, r := range rows {
		teachers = append(teachers, r.unpack())
	}
	return teachers, nil
}

func (repo teacherRepository) GetTeacherByID(ctx context.Context, id string) (profile.Teacher, error) {
	var r teacherRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM teacher WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return profile.Teacher{}, profile.ErrTeacherNotFound
		}
		return profile.Teacher{}, wrapDBErr(err, "getting teacher by id")
	}
	return r.unpack(), nil
}

func (repo teacherRepository) GetTeacherByUserID(ctx context.Context, userID string) (profile.Teacher, error) {
	var r teacherRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM teacher WHERE user_id = $1`, userID); err != nil {
		if err == sql.ErrNoRows {
			return profile.Teacher{}, profile.ErrTeacherNotFound
		}
		return profile.Teacher{}, wrapDBErr(err, "getting teacher by user id")
	}
	return r.unpack(), nil
}
