package model

import "time"

// Статусы пациента.
const (
	PatientAdmitted   = "Admitted"
	PatientDischarged = "Discharged"
)

type Patient struct {
	ID               int       `json:"id"`
	PatientID        string    `json:"patient_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	DateOfBirth      time.Time `json:"date_of_birth"`
	Gender           string    `json:"gender"`
	Address          *string   `json:"address"`
	Contact          string    `json:"contact"`
	Email            *string   `json:"email"`
	EmergencyContact *string   `json:"emergency_contact"`
	BloodGroup       *string   `json:"blood_group"`
	Allergies        *string   `json:"allergies"`
	MedicalHistory   *string   `json:"medical_history"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PatientListItem — строка списка пациентов: имя одной строкой и возраст,
// посчитанный в SQL.
type PatientListItem struct {
	ID          int       `json:"id"`
	PatientID   string    `json:"patient_id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	Contact     string    `json:"contact"`
	Status      string    `json:"status"`
	Age         int       `json:"age"`
}

// PatientDetails — карточка пациента с историей по связанным таблицам.
type PatientDetails struct {
	Patient
	Appointments []PatientAppointment `json:"appointments"`
	LabTests     []PatientLabTest     `json:"lab_tests"`
	Invoices     []PatientInvoice     `json:"invoices"`
}

type PatientAppointment struct {
	ID            int       `json:"id"`
	AppointmentID string    `json:"appointment_id"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	DoctorName    string    `json:"doctor_name"`
	Department    string    `json:"department"`
}

type PatientLabTest struct {
	ID          int       `json:"id"`
	TestID      string    `json:"test_id"`
	TestName    string    `json:"test_name"`
	RequestDate time.Time `json:"request_date"`
	Status      string    `json:"status"`
	Result      *string   `json:"result"`
}

type PatientInvoice struct {
	ID        int       `json:"id"`
	InvoiceID string    `json:"invoice_id"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
}
