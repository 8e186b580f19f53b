package payslip_test

import (
	"errors"
	"testing"

	"go-payroll/internal/deduction"
	"go-payroll/internal/payslip"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaultRates() map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(deduction.Defaults))
	for _, def := range deduction.Defaults {
		rates[def.Code] = def.Percentage
	}
	return rates
}

func TestCompute_DefaultCatalog(t *testing.T) {
	rates, err := payslip.NewRateSet(defaultRates())
	require.NoError(t, err)

	b := payslip.Compute(d("500000.00"), rates)

	assert.Equal(t, "500000.00", b.BaseSalary.StringFixed(2))
	assert.Equal(t, "70000.00", b.HouseAmount.StringFixed(2))
	assert.Equal(t, "70000.00", b.TransportAmount.StringFixed(2))
	assert.Equal(t, "640000.00", b.GrossSalary.StringFixed(2))
	assert.Equal(t, "150000.00", b.EmployeeTaxAmount.StringFixed(2))
	assert.Equal(t, "30000.00", b.PensionAmount.StringFixed(2))
	assert.Equal(t, "25000.00", b.MedicalInsuranceAmount.StringFixed(2))
	assert.Equal(t, "25000.00", b.OtherTaxAmount.StringFixed(2))
	assert.Equal(t, "230000.00", b.TotalDeductions.StringFixed(2))
	assert.Equal(t, "410000.00", b.NetSalary.StringFixed(2))
}

func TestCompute_NetIsGrossMinusDeductions(t *testing.T) {
	rates, err := payslip.NewRateSet(defaultRates())
	require.NoError(t, err)

	for _, base := range []string{"1", "999.99", "123456.78", "75000.5"} {
		b := payslip.Compute(d(base), rates)
		deductions := b.EmployeeTaxAmount.Add(b.PensionAmount).Add(b.MedicalInsuranceAmount).Add(b.OtherTaxAmount)
		assert.True(t, b.NetSalary.Equal(b.GrossSalary.Sub(deductions)), base)
		assert.True(t, b.GrossSalary.Equal(b.BaseSalary.Add(b.HouseAmount).Add(b.TransportAmount)), base)
	}
}

func TestCompute_RoundsHalfUpToCents(t *testing.T) {
	rates, err := payslip.NewRateSet(defaultRates())
	require.NoError(t, err)

	// 14% of 1234.55 = 172.837 -> 172.84; 5% = 61.7275 -> 61.73
	b := payslip.Compute(d("1234.55"), rates)
	assert.Equal(t, "172.84", b.HouseAmount.StringFixed(2))
	assert.Equal(t, "61.73", b.MedicalInsuranceAmount.StringFixed(2))

	// 6% of 0.25 = 0.015 -> 0.02
	b = payslip.Compute(d("0.25"), rates)
	assert.Equal(t, "0.02", b.PensionAmount.StringFixed(2))
}

func TestCompute_RateFractionRoundedFirst(t *testing.T) {
	rates := defaultRates()
	rates[deduction.CodeHousing] = d("12.345")
	set, err := payslip.NewRateSet(rates)
	require.NoError(t, err)

	// 12.345% -> 0.12345 -> 0.12, so 1000 * 0.12 = 120.00
	b := payslip.Compute(d("1000"), set)
	assert.Equal(t, "120.00", b.HouseAmount.StringFixed(2))
}

func TestNewRateSet_MissingCodes(t *testing.T) {
	rates := defaultRates()
	delete(rates, deduction.CodePension)
	delete(rates, deduction.CodeHousing)

	_, err := payslip.NewRateSet(rates)
	require.Error(t, err)
	assert.ErrorIs(t, err, paysliperrors.ErrMissingRate)

	var missing *payslip.MissingRateError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{deduction.CodeHousing, deduction.CodePension}, missing.Codes)

	httpErr := apperror.ToHTTP(err)
	assert.Equal(t, 500, httpErr.Status)
	assert.Equal(t, apperror.CodeConfiguration, httpErr.Code)
}
