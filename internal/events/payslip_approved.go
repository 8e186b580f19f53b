package events

import "time"

const (
	PayslipApprovedTopic     = "payroll.payslip.approved.v1"
	PayslipApprovedEventType = "payroll.payslip.approved"
	PayslipAggregateType     = "payslip"
)

type PayslipApprovedEvent struct {
	EventType    string    `json:"event_type"`
	PayslipID    string    `json:"payslip_id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeCode string    `json:"employee_code"`
	Month        int       `json:"month"`
	Year         int       `json:"year"`
	NetSalary    string    `json:"net_salary"`
	ApprovedBy   string    `json:"approved_by"`
	ApprovedAt   time.Time `json:"approved_at"`
	OccurredAt   time.Time `json:"occurred_at"`
}
