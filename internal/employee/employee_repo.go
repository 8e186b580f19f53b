package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateEmployee(ctx context.Context, e *Employee) error
	CreateEmployment(ctx context.Context, e *Employment) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindEmploymentByEmployeeID(ctx context.Context, employeeID string) (*Employment, error)
	Exists(ctx context.Context, id string) (bool, error)
	FindActiveEmployments(ctx context.Context) ([]ActiveEmployment, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) CreateEmployee(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) CreateEmployment(ctx context.Context, e *Employment) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	if err := r.conn(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindEmploymentByEmployeeID(ctx context.Context, employeeID string) (*Employment, error) {
	var e Employment
	if err := r.conn(ctx).First(&e, "employee_id = ?", employeeID).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// FindActiveEmployments joins employments to employees explicitly so the
// generator gets code and name without per-row lookups.
func (r *repository) FindActiveEmployments(ctx context.Context) ([]ActiveEmployment, error) {
	var rows []ActiveEmployment
	err := r.conn(ctx).
		Table("employments AS em").
		Select(`em.id AS employment_id,
			em.employee_id AS employee_id,
			e.code AS employee_code,
			e.full_name AS employee_name,
			em.base_salary AS base_salary`).
		Joins("JOIN employees e ON e.id = em.employee_id").
		Where("em.status = ?", EmploymentActive).
		Order("e.code ASC").
		Scan(&rows).Error
	return rows, err
}
