package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending = "PENDING"
	StatusSent    = "SENT"
	StatusFailed  = "FAILED"
)

// Notification moves PENDING -> SENT or PENDING -> FAILED, both terminal.
// EmailSent is true only for SENT rows.
type Notification struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	PayslipID      *uuid.UUID `gorm:"type:uuid"`
	MessageContent string     `gorm:"type:text;not null"`
	Month          int        `gorm:"type:smallint;not null"`
	Year           int        `gorm:"not null"`
	Status         string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	EmailSent      bool       `gorm:"not null;default:false"`
	SentAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Notification) TableName() string {
	return "notifications"
}

// PendingDelivery is an undelivered notification together with the
// recipient data and the linked payslip amount, loaded in one query.
type PendingDelivery struct {
	ID             uuid.UUID
	EmployeeID     uuid.UUID
	PayslipID      *uuid.UUID
	MessageContent string
	Month          int
	Year           int
	CreatedAt      time.Time
	Email          string
	FirstName      string
	FullName       string
	NetSalary      decimal.NullDecimal
}

// DeliveryCursor marks the last row a dispatch run has read.
type DeliveryCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func (p PendingDelivery) Cursor() *DeliveryCursor {
	return &DeliveryCursor{CreatedAt: p.CreatedAt, ID: p.ID}
}
