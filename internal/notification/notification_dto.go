package notification

import "github.com/google/uuid"

type EnqueueRequest struct {
	EmployeeID     uuid.UUID
	PayslipID      *uuid.UUID
	MessageContent string
	Month          int
	Year           int
}

type ListNotificationsRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING SENT FAILED"`
}

type NotificationResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employeeId"`
	PayslipID      *string `json:"payslipId"`
	MessageContent string  `json:"messageContent"`
	Month          int     `json:"month"`
	Year           int     `json:"year"`
	Status         string  `json:"status"`
	EmailSent      bool    `json:"emailSent"`
	SentAt         *string `json:"sentAt"`
	CreatedAt      string  `json:"createdAt"`
}
