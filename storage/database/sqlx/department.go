package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/department"
)

type departmentRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r departmentRow) unpack() department.Department {
	return department.Department{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

type departmentRepository struct {
	db *sqlx.DB
}

var _ department.Repository = (*departmentRepository)(nil) // interface compliance check

func NewDepartmentRepository(db *sqlx.DB) *departmentRepository {
	return &departmentRepository{db: db}
}

func (repo departmentRepository) CreateDepartment(ctx context.Context, dept department.Department) (department.Department, error) {
	dept.ID = uuid.New().String()
	// DO NOTHING on conflict: a zero rowcount means a concurrent caller won
	// the create race and this caller should re-read the winner's row.
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO department (id, name, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO NOTHING`,
		dept.ID, dept.Name, dept.CreatedAt,
	)
	if err != nil {
		return department.Department{}, wrapDBErr(err, "inserting department")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return department.Department{}, department.ErrNameTaken
	}
	return dept, nil
}

func (repo departmentRepository) GetDepartmentByID(ctx context.Context, id string) (department.Department, error) {
	var r departmentRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM department WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return department.Department{}, department.ErrNotFound
		}
		return department.Department{}, wrapDBErr(err, "getting department by id")
	}
	return r.unpack(), nil
}

func (repo departmentRepository) GetDepartmentByName(ctx context.Context, name string) (department.Department, error) {
	var r departmentRow
	if err := repo.db.GetContext(ctx, &r, `SELECT * FROM department WHERE name = $1`, name); err != nil {
		if err == sql.ErrNoRows {
			return department.Department{}, department.ErrNotFound
		}
		return department.Department{}, wrapDBErr(err, "getting department by name")
	}
	return r.unpack(), nil
}

func (repo departmentRepository) QueryAllDepartments(ctx context.Context) ([]department.Department, error) {
	var rows []departmentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM department ORDER BY name`); err != nil {
		return nil, wrapDBErr(err, "querying departments")
	}
	depts := make([]department.Department, 0, len(rows))
	for _, r := range rows {
		depts = append(depts, r.unpack())
	}
	return depts, nil
}
