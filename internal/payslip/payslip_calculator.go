package payslip

import (
	"fmt"
	"sort"
	"strings"

	"go-payroll/internal/deduction"
	paysliperrors "go-payroll/internal/payslip/errors"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MissingRateError lists catalog codes the calculator needs but could not find.
type MissingRateError struct {
	Codes []string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("missing deduction rates: %s", strings.Join(e.Codes, ", "))
}

// RateSet is one consistent snapshot of the deduction catalog, in percent.
type RateSet struct {
	Housing          decimal.Decimal
	Transport        decimal.Decimal
	EmployeeTax      decimal.Decimal
	Pension          decimal.Decimal
	MedicalInsurance decimal.Decimal
	Others           decimal.Decimal
}

// NewRateSet picks the required codes out of a code->percentage map. Any
// missing code yields ErrMissingRate wrapping a *MissingRateError.
func NewRateSet(rates map[string]decimal.Decimal) (RateSet, error) {
	var missing []string
	get := func(code string) decimal.Decimal {
		v, ok := rates[code]
		if !ok {
			missing = append(missing, code)
		}
		return v
	}

	set := RateSet{
		Housing:          get(deduction.CodeHousing),
		Transport:        get(deduction.CodeTransport),
		EmployeeTax:      get(deduction.CodeEmployeeTax),
		Pension:          get(deduction.CodePension),
		MedicalInsurance: get(deduction.CodeMedicalInsurance),
		Others:           get(deduction.CodeOthers),
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return RateSet{}, paysliperrors.ErrMissingRate.
			WithCause(&MissingRateError{Codes: missing}).
			WithDetails(map[string]any{"missingCodes": missing})
	}
	return set, nil
}

type Breakdown struct {
	BaseSalary             decimal.Decimal
	HouseAmount            decimal.Decimal
	TransportAmount        decimal.Decimal
	GrossSalary            decimal.Decimal
	EmployeeTaxAmount      decimal.Decimal
	PensionAmount          decimal.Decimal
	MedicalInsuranceAmount decimal.Decimal
	OtherTaxAmount         decimal.Decimal
	TotalDeductions        decimal.Decimal
	NetSalary              decimal.Decimal
}

// percentageOf rounds the rate fraction to 2 places first, then the product.
// Both roundings are half-up; every caller passes non-negative amounts.
func percentageOf(amount, percent decimal.Decimal) decimal.Decimal {
	fraction := percent.Div(hundred).Round(2)
	return amount.Mul(fraction).Round(2)
}

// Compute derives every payslip amount from the base salary. Deductions are
// taken from the base salary, not the gross.
func Compute(baseSalary decimal.Decimal, rates RateSet) Breakdown {
	base := baseSalary.Round(2)

	house := percentageOf(base, rates.Housing)
	transport := percentageOf(base, rates.Transport)
	gross := base.Add(house).Add(transport)

	tax := percentageOf(base, rates.EmployeeTax)
	pension := percentageOf(base, rates.Pension)
	medical := percentageOf(base, rates.MedicalInsurance)
	other := percentageOf(base, rates.Others)
	total := tax.Add(pension).Add(medical).Add(other)

	return Breakdown{
		BaseSalary:             base,
		HouseAmount:            house,
		TransportAmount:        transport,
		GrossSalary:            gross,
		EmployeeTaxAmount:      tax,
		PensionAmount:          pension,
		MedicalInsuranceAmount: medical,
		OtherTaxAmount:         other,
		TotalDeductions:        total,
		NetSalary:              gross.Sub(total),
	}
}
