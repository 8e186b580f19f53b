package notification

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id string) (*Notification, error)
	FindAll(ctx context.Context, status string) ([]Notification, error)
	FindUndelivered(ctx context.Context, after *DeliveryCursor, limit int) ([]PendingDelivery, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.conn(ctx).Create(n).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	if err := r.conn(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) FindAll(ctx context.Context, status string) ([]Notification, error) {
	var notifications []Notification
	db := r.conn(ctx).Order("created_at DESC")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Find(&notifications).Error
	return notifications, err
}

// FindUndelivered returns up to limit PENDING rows with email_sent = false,
// ordered by (created_at, id) and starting strictly after the cursor when one
// is given. FAILED rows are terminal and never re-fetched.
func (r *repository) FindUndelivered(ctx context.Context, after *DeliveryCursor, limit int) ([]PendingDelivery, error) {
	var rows []PendingDelivery
	db := r.conn(ctx).
		Table("notifications AS n").
		Select(`n.id, n.employee_id, n.payslip_id, n.message_content, n.month, n.year, n.created_at,
			e.email, e.first_name, e.full_name,
			p.net_salary`).
		Joins("JOIN employees e ON e.id = n.employee_id").
		Joins("LEFT JOIN payslips p ON p.id = n.payslip_id").
		Where("n.email_sent = ? AND n.status = ?", false, StatusPending)
	if after != nil {
		db = db.Where("(n.created_at, n.id) > (?, ?)", after.CreatedAt, after.ID)
	}
	err := db.
		Order("n.created_at ASC, n.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return r.conn(ctx).
		Model(&Notification{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":     StatusSent,
			"email_sent": true,
			"sent_at":    sentAt,
			"updated_at": sentAt,
		}).Error
}

func (r *repository) MarkFailed(ctx context.Context, id string) error {
	return r.conn(ctx).
		Model(&Notification{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":     StatusFailed,
			"email_sent": false,
			"updated_at": time.Now().UTC(),
		}).Error
}
