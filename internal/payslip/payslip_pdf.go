package payslip

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type pdfRow struct {
	label  string
	amount decimal.Decimal
}

// RenderPDF lays out one payslip on a single A4 page.
func RenderPDF(p Payslip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", p.EmployeeName, p.EmployeeCode))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", p.MonthName(), p.Year))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", p.Status))
	pdf.Ln(10)

	section := func(title string, rows []pdfRow) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, row := range rows {
			pdf.CellFormat(100, 7, row.label, "", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, row.amount.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}

	section("Earnings", []pdfRow{
		{"Base salary", p.BaseSalary},
		{"Housing allowance", p.HouseAmount},
		{"Transport allowance", p.TransportAmount},
		{"Gross salary", p.GrossSalary},
	})
	section("Deductions", []pdfRow{
		{"Employee tax", p.EmployeeTaxAmount},
		{"Pension", p.PensionAmount},
		{"Medical insurance", p.MedicalInsuranceAmount},
		{"Other deductions", p.OtherTaxAmount},
	})

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(100, 9, "Net salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, p.NetSalary.StringFixed(2), "T", 1, "R", false, 0, "")

	if p.ApprovedAt != nil && p.ApprovedBy != nil {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Approved by %s on %s", *p.ApprovedBy, p.ApprovedAt.Format("2006-01-02")))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pdfFilename(p Payslip) string {
	code := p.EmployeeCode
	if code == "" {
		code = p.EmployeeID.String()
	}
	return fmt.Sprintf("payslip-%s-%d-%02d.pdf", code, p.Year, p.Month)
}
