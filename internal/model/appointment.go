package model

import "time"

// Статусы приёма.
const (
	AppointmentScheduled = "Scheduled"
	AppointmentCompleted = "Completed"
	AppointmentCancelled = "Cancelled"
	AppointmentNoShow    = "No-show"
)

type Appointment struct {
	ID            int       `json:"id"`
	AppointmentID string    `json:"appointment_id"`
	PatientID     int       `json:"patient_id"`
	DoctorID      int       `json:"doctor_id"`
	DepartmentID  int       `json:"department_id"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Type          string    `json:"type"`
	Notes         *string   `json:"notes"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DoctorAppointment — приём в карточке врача (с именем пациента).
type DoctorAppointment struct {
	ID            int       `json:"id"`
	AppointmentID string    `json:"appointment_id"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	PatientName   string    `json:"patient_name"`
}

// AppointmentListItem — строка расписания: приём с именами пациента, врача и отделения.
type AppointmentListItem struct {
	ID            int       `json:"id"`
	AppointmentID string    `json:"appointment_id"`
	PatientName   string    `json:"patient_name"`
	PatientID     string    `json:"patient_id"`
	DoctorName    string    `json:"doctor_name"`
	Department    string    `json:"department"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
}
