package payslip

type GeneratePayslipsRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=1900,max=9999"`
}

// PayslipResponse is the payslip projection returned by every read and write.
type PayslipResponse struct {
	ID                     string  `json:"id"`
	EmployeeID             string  `json:"employeeId"`
	EmployeeCode           string  `json:"employeeCode"`
	EmployeeName           string  `json:"employeeName"`
	BaseSalary             string  `json:"baseSalary"`
	HouseAmount            string  `json:"houseAmount"`
	TransportAmount        string  `json:"transportAmount"`
	GrossSalary            string  `json:"grossSalary"`
	EmployeeTaxAmount      string  `json:"employeeTaxAmount"`
	PensionAmount          string  `json:"pensionAmount"`
	MedicalInsuranceAmount string  `json:"medicalInsuranceAmount"`
	OtherTaxAmount         string  `json:"otherTaxAmount"`
	NetSalary              string  `json:"netSalary"`
	Status                 string  `json:"status"`
	Month                  int     `json:"month"`
	Year                   int     `json:"year"`
	MonthName              string  `json:"monthName"`
	ApprovedAt             *string `json:"approvedAt"`
	ApprovedBy             *string `json:"approvedBy"`
}
