package sqlxrepos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/trezcool/shule/core/department"
)

func TestDepartmentRepository_CreateDepartment(t *testing.T) {
	sdb, mock := newMockDB(t)
	repo := NewDepartmentRepository(sdb)
	ctx := context.Background()

	dept := department.Department{Name: "Maths", CreatedAt: time.Now().UTC()}
	insert := regexp.QuoteMeta(`INSERT INTO department`)

	t.Run("ok", func(t *testing.T) {
		mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 1))

		created, err := repo.CreateDepartment(ctx, dept)
		if err != nil {
			t.Fatalf("CreateDepartment(): %v", err)
		}
		if created.ID == "" {
			t.Error("CreateDepartment() did not assign an ID")
		}
	})

	// ON CONFLICT DO NOTHING: zero rows means another writer won the race
	t.Run("name taken", func(t *testing.T) {
		mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 0))

		if _, err := repo.CreateDepartment(ctx, dept); err != department.ErrNameTaken {
			t.Errorf("CreateDepartment() error = %v, want %v", err, department.ErrNameTaken)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDepartmentRepository_GetDepartmentByName(t *testing.T) {
	sdb, mock := newMockDB(t)
	repo := NewDepartmentRepository(sdb)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT * FROM department WHERE name = $1`)

	mock.ExpectQuery(query).WithArgs("Maths").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow("d1", "Maths", time.Now().UTC()))

	dept, err := repo.GetDepartmentByName(ctx, "Maths")
	if err != nil {
		t.Fatalf("GetDepartmentByName(): %v", err)
	}
	if dept.ID != "d1" {
		t.Errorf("ID = %v, want d1", dept.ID)
	}

	mock.ExpectQuery(query).WithArgs("maths").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

	if _, err = repo.GetDepartmentByName(ctx, "maths"); err != department.ErrNotFound {
		t.Errorf("GetDepartmentByName() error = %v, want %v", err, department.ErrNotFound)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
