package employee

import "github.com/shopspring/decimal"

type OnboardEmployeeRequest struct {
	FirstName   string          `json:"firstName" binding:"required,max=100"`
	LastName    string          `json:"lastName" binding:"required,max=100"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Department  string          `json:"department" binding:"required"`
	Position    string          `json:"position" binding:"required"`
	BaseSalary  decimal.Decimal `json:"baseSalary"`
	JoiningDate string          `json:"joiningDate" binding:"required"`
	Status      string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
}

type EmploymentResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	BaseSalary  string `json:"baseSalary"`
	Status      string `json:"status"`
	JoiningDate string `json:"joiningDate"`
}

type EmployeeResponse struct {
	ID         string              `json:"id"`
	Code       string              `json:"code"`
	FullName   string              `json:"fullName"`
	Email      string              `json:"email"`
	Employment *EmploymentResponse `json:"employment,omitempty"`
}
