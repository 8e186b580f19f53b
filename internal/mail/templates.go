package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"go-payroll/internal/notification"
)

const salaryPaymentTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <p>Dear {{.firstName}},</p>
  <p>{{.messageContent}}</p>
  <table cellpadding="4">
    <tr><td>Period</td><td>{{.month}} {{.year}}</td></tr>
    <tr><td>Net amount</td><td>{{.amount}}</td></tr>
    <tr><td>Date</td><td>{{.notificationDate}}</td></tr>
  </table>
  <p>Regards,<br>{{.institution}}</p>
</body>
</html>`

type Templates struct {
	byID map[string]*template.Template
}

func DefaultTemplates() *Templates {
	return &Templates{
		byID: map[string]*template.Template{
			notification.TemplateSalaryPayment: template.Must(
				template.New(notification.TemplateSalaryPayment).
					Option("missingkey=zero").
					Parse(salaryPaymentTemplate),
			),
		},
	}
}

func (t *Templates) Render(templateID string, vars map[string]any) (string, error) {
	tmpl, ok := t.byID[templateID]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", templateID)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render email template %q: %w", templateID, err)
	}
	return buf.String(), nil
}
