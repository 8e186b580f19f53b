package payslip

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

type Payslip struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payslip_employee_period"`
	Month      int       `gorm:"type:smallint;not null;uniqueIndex:uq_payslip_employee_period"`
	Year       int       `gorm:"not null;uniqueIndex:uq_payslip_employee_period"`

	// Snapshot of the amounts at generation time.
	BaseSalary             decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	HouseAmount            decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	TransportAmount        decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	GrossSalary            decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	EmployeeTaxAmount      decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	PensionAmount          decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	MedicalInsuranceAmount decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	OtherTaxAmount         decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	NetSalary              decimal.Decimal `gorm:"type:numeric(15,2);not null"`

	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ApprovedBy *string    `gorm:"type:varchar(255)"`
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Filled by joined reads only.
	EmployeeCode string `gorm:"->;-:migration"`
	EmployeeName string `gorm:"->;-:migration"`
}

func (Payslip) TableName() string {
	return "payslips"
}

// MonthName returns the English month name, or "" for an out-of-range month.
func (p Payslip) MonthName() string {
	if p.Month < 1 || p.Month > 12 {
		return ""
	}
	return time.Month(p.Month).String()
}

func newPayslip(employeeID uuid.UUID, month, year int, b Breakdown) *Payslip {
	return &Payslip{
		ID:                     uuid.New(),
		EmployeeID:             employeeID,
		Month:                  month,
		Year:                   year,
		BaseSalary:             b.BaseSalary,
		HouseAmount:            b.HouseAmount,
		TransportAmount:        b.TransportAmount,
		GrossSalary:            b.GrossSalary,
		EmployeeTaxAmount:      b.EmployeeTaxAmount,
		PensionAmount:          b.PensionAmount,
		MedicalInsuranceAmount: b.MedicalInsuranceAmount,
		OtherTaxAmount:         b.OtherTaxAmount,
		NetSalary:              b.NetSalary,
		Status:                 StatusPending,
	}
}
