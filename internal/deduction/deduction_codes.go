package deduction

import "github.com/shopspring/decimal"

// Codes recognised by the payslip calculator.
const (
	CodeEmployeeTax      = "EMPLOYEE_TAX"
	CodePension          = "PENSION"
	CodeMedicalInsurance = "MEDICAL_INSURANCE"
	CodeHousing          = "HOUSING"
	CodeTransport        = "TRANSPORT"
	CodeOthers           = "OTHERS"
)

type DefaultRate struct {
	Code       string
	Name       string
	Percentage decimal.Decimal
}

// Defaults are seed values only. Calculations always read the stored catalog.
var Defaults = []DefaultRate{
	{Code: CodeEmployeeTax, Name: "Employee Tax", Percentage: decimal.RequireFromString("30.00")},
	{Code: CodePension, Name: "Pension", Percentage: decimal.RequireFromString("6.00")},
	{Code: CodeMedicalInsurance, Name: "Medical Insurance", Percentage: decimal.RequireFromString("5.00")},
	{Code: CodeHousing, Name: "Housing", Percentage: decimal.RequireFromString("14.00")},
	{Code: CodeTransport, Name: "Transport", Percentage: decimal.RequireFromString("14.00")},
	{Code: CodeOthers, Name: "Others", Percentage: decimal.RequireFromString("5.00")},
}

// RequiredCodes lists every code a complete catalog must carry.
func RequiredCodes() []string {
	codes := make([]string, len(Defaults))
	for i, d := range Defaults {
		codes[i] = d.Code
	}
	return codes
}

var hundred = decimal.NewFromInt(100)

// ValidPercentage reports whether p lies in (0, 100] with at most two decimals.
func ValidPercentage(p decimal.Decimal) bool {
	if !p.IsPositive() || p.GreaterThan(hundred) {
		return false
	}
	return p.Equal(p.Round(2))
}
