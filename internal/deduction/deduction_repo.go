package deduction

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=deduction_repo.go -destination=mock/deduction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Deduction) error
	CreateIfAbsent(ctx context.Context, d *Deduction) (bool, error)
	FindAll(ctx context.Context) ([]Deduction, error)
	FindByID(ctx context.Context, id string) (*Deduction, error)
	FindByCode(ctx context.Context, code string) (*Deduction, error)
	Update(ctx context.Context, d *Deduction) error
	Delete(ctx context.Context, id string) error
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

// conn binds the session to the service-owned *sql.Tx when one is set.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, d *Deduction) error {
	return r.conn(ctx).Create(d).Error
}

func (r *repository) CreateIfAbsent(ctx context.Context, d *Deduction) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).
		Create(d)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindAll(ctx context.Context) ([]Deduction, error) {
	var deductions []Deduction
	err := r.conn(ctx).
		Order("code ASC").
		Find(&deductions).Error
	return deductions, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Deduction, error) {
	var d Deduction
	err := r.conn(ctx).First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Deduction, error) {
	var d Deduction
	err := r.conn(ctx).First(&d, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) Update(ctx context.Context, d *Deduction) error {
	return r.conn(ctx).Save(d).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&Deduction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
