package payslip

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateIfAbsent(ctx context.Context, p *Payslip) (bool, error)
	ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, month, year int) (bool, error)
	FindByID(ctx context.Context, id string) (*Payslip, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
	FindAllByPeriod(ctx context.Context, month, year int) ([]Payslip, error)
	FindByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*Payslip, error)
	FindPendingIDsByPeriod(ctx context.Context, month, year int) ([]uuid.UUID, error)
	MarkPaid(ctx context.Context, id string, approvedBy string, approvedAt time.Time) (bool, error)
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

// withEmployee loads the employee code and name through an explicit join.
func withEmployee(db *gorm.DB) *gorm.DB {
	return db.
		Select("payslips.*, e.code AS employee_code, e.full_name AS employee_name").
		Joins("JOIN employees e ON e.id = payslips.employee_id")
}

// CreateIfAbsent relies on uq_payslip_employee_period; a conflicting row is
// reported as (false, nil) instead of aborting the surrounding transaction.
func (r *repository) CreateIfAbsent(ctx context.Context, p *Payslip) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "month"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, month, year int) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Payslip{}).
		Where("employee_id = ? AND month = ? AND year = ?", employeeID, month, year).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	err := r.conn(ctx).
		Scopes(withEmployee).
		Where("payslips.id = ?", id).
		Take(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]Payslip, error) {
	var payslips []Payslip
	err := r.conn(ctx).
		Scopes(withEmployee).
		Where("payslips.employee_id = ?", employeeID).
		Order("payslips.year DESC, payslips.month DESC").
		Find(&payslips).Error
	return payslips, err
}

func (r *repository) FindAllByPeriod(ctx context.Context, month, year int) ([]Payslip, error) {
	var payslips []Payslip
	err := r.conn(ctx).
		Scopes(withEmployee).
		Where("payslips.month = ? AND payslips.year = ?", month, year).
		Order("e.code ASC").
		Find(&payslips).Error
	return payslips, err
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int) (*Payslip, error) {
	var p Payslip
	err := r.conn(ctx).
		Scopes(withEmployee).
		Where("payslips.employee_id = ? AND payslips.month = ? AND payslips.year = ?", employeeID, month, year).
		Take(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindPendingIDsByPeriod(ctx context.Context, month, year int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).
		Model(&Payslip{}).
		Where("month = ? AND year = ? AND status = ?", month, year, StatusPending).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// MarkPaid only moves PENDING rows; false means the row was not PENDING.
func (r *repository) MarkPaid(ctx context.Context, id string, approvedBy string, approvedAt time.Time) (bool, error) {
	res := r.conn(ctx).
		Model(&Payslip{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":      StatusPaid,
			"approved_by": approvedBy,
			"approved_at": approvedAt,
			"updated_at":  approvedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
