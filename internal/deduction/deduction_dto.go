package deduction

import "github.com/shopspring/decimal"

type CreateDeductionRequest struct {
	Code       string          `json:"code" binding:"omitempty,max=50"`
	Name       string          `json:"name" binding:"required,max=100"`
	Percentage decimal.Decimal `json:"percentage"`
}

// UpdateDeductionRequest applies only the fields that are present.
type UpdateDeductionRequest struct {
	Name       *string          `json:"name" binding:"omitempty,max=100"`
	Percentage *decimal.Decimal `json:"percentage"`
}

type DeductionResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Percentage string `json:"percentage"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}
