package model

import "time"

// Статусы лабораторного исследования.
const (
	LabTestPending   = "Pending"
	LabTestCompleted = "Completed"
)

type LabTest struct {
	ID          int        `json:"id"`
	TestID      string     `json:"test_id"`
	PatientID   int        `json:"patient_id"`
	TestName    string     `json:"test_name"`
	RequestedBy int        `json:"requested_by"`
	RequestDate time.Time  `json:"request_date"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Notes       *string    `json:"notes"`
	Result      *string    `json:"result"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LabTestListItem — строка журнала исследований (с пациентом и назначившим врачом).
type LabTestListItem struct {
	ID          int       `json:"id"`
	TestID      string    `json:"test_id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	TestName    string    `json:"test_name"`
	RequestedBy string    `json:"requested_by"`
	RequestDate time.Time `json:"request_date"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
}

// LabTestDetails — карточка исследования.
type LabTestDetails struct {
	LabTest
	PatientFirstName string `json:"patient_first_name"`
	PatientLastName  string `json:"patient_last_name"`
	PatientNumber    string `json:"patient_number"`
	RequestedByName  string `json:"requested_by_name"`
}
