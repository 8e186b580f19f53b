package notification

import "context"

const (
	SubjectSalaryPayment  = "Salary Payment Notification"
	TemplateSalaryPayment = "SALARY_PAYMENT_NOTIFICATION"
	AmountNotAvailable    = "N/A"
)

type Message struct {
	To            string
	RecipientName string
	Subject       string
	TemplateID    string
	Variables     map[string]any
}

//go:generate mockgen -source=notification_mailer.go -destination=mock/notification_mailer_mock.go -package=mock
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// DeliveryError marks a failure of the mail transport itself. The dispatcher
// records it as FAILED; any other error leaves the notification untouched.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return "mail delivery failed"
	}
	return "mail delivery failed: " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
