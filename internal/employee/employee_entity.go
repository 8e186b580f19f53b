package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EmploymentActive     = "ACTIVE"
	EmploymentInactive   = "INACTIVE"
	EmploymentTerminated = "TERMINATED"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	FirstName string    `gorm:"type:varchar(100);not null"`
	LastName  string    `gorm:"type:varchar(100);not null"`
	FullName  string    `gorm:"type:varchar(200);not null"`
	Email     string    `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}

// Employment carries payroll eligibility, one per employee.
type Employment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Department  string          `gorm:"type:varchar(100);not null"`
	Position    string          `gorm:"type:varchar(100);not null"`
	BaseSalary  decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	JoiningDate time.Time       `gorm:"type:date;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Employment) TableName() string {
	return "employments"
}

// ActiveEmployment is the flattened row the payslip generator works from.
type ActiveEmployment struct {
	EmploymentID uuid.UUID
	EmployeeID   uuid.UUID
	EmployeeCode string
	EmployeeName string
	BaseSalary   decimal.Decimal
}
