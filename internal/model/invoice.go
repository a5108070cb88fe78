package model

import "time"

// Статусы счёта.
const (
	InvoicePending = "Pending"
	InvoicePaid    = "Paid"
)

type Invoice struct {
	ID        int       `json:"id"`
	InvoiceID string    `json:"invoice_id"`
	PatientID int       `json:"patient_id"`
	Date      time.Time `json:"date"`
	DueDate   time.Time `json:"due_date"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvoiceItem struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// InvoiceListItem — строка реестра счетов (с пациентом).
type InvoiceListItem struct {
	ID          int       `json:"id"`
	InvoiceID   string    `json:"invoice_id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Date        time.Time `json:"date"`
	DueDate     time.Time `json:"due_date"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
}

// InvoiceDetails — счёт с позициями (для печатной формы).
type InvoiceDetails struct {
	Invoice
	PatientFirstName string        `json:"patient_first_name"`
	PatientLastName  string        `json:"patient_last_name"`
	PatientNumber    string        `json:"patient_number"`
	Items            []InvoiceItem `json:"items"`
}
