package deduction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Deduction struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code       string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name       string          `gorm:"type:varchar(100);not null"`
	Percentage decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Deduction) TableName() string {
	return "deductions"
}
