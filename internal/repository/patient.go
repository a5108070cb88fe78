package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hospital/internal/logger"
	"github.com/hospital/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const patientCols = `id, patient_id, first_name, last_name, date_of_birth, gender, address, contact, email, emergency_contact, blood_group, allergies, medical_history, status, created_at, updated_at`

type PatientRepository struct {
	pool *pgxpool.Pool
}

func NewPatientRepository(pool *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{pool: pool}
}

func scanPatient(s interface{ Scan(dest ...any) error }, p *model.Patient) error {
	return s.Scan(&p.ID, &p.PatientID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender, &p.Address, &p.Contact, &p.Email, &p.EmergencyContact, &p.BloodGroup, &p.Allergies, &p.MedicalHistory, &p.Status, &p.CreatedAt, &p.UpdatedAt)
}

// List — реестр пациентов: имя одной строкой, возраст считается в SQL.
func (r *PatientRepository) List(ctx context.Context) ([]model.PatientListItem, error) {
	defer logger.DeferLogDuration("patient.List", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT id, patient_id, first_name || ' ' || last_name, date_of_birth, gender, contact, status,
		        EXTRACT(YEAR FROM AGE(CURRENT_DATE, date_of_birth))::int
		 FROM patients
		 ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("patientRepo.List: %w", err)
	}
	defer rows.Close()
	items := make([]model.PatientListItem, 0)
	for rows.Next() {
		var it model.PatientListItem
		if err := rows.Scan(&it.ID, &it.PatientID, &it.Name, &it.DateOfBirth, &it.Gender, &it.Contact, &it.Status, &it.Age); err != nil {
			return nil, fmt.Errorf("patientRepo.List scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create регистрирует пациента со сгенерированным номером P-xxxxxxxxx и статусом Admitted.
func (r *PatientRepository) Create(ctx context.Context, p *model.Patient) (int, string, error) {
	defer logger.DeferLogDuration("patient.Create", time.Now())()
	patientID := GenerateID("P")
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO patients (patient_id, first_name, last_name, date_of_birth, gender, address, contact, email, emergency_contact, blood_group, allergies, medical_history, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'Admitted')
		 RETURNING id`,
		patientID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Address, p.Contact, p.Email, p.EmergencyContact, p.BloodGroup, p.Allergies, p.MedicalHistory,
	).Scan(&id)
	if err != nil {
		return 0, "", fmt.Errorf("patientRepo.Create: %w", err)
	}
	return id, patientID, nil
}

// GetDetails — карточка пациента с историей приёмов, исследований и счетов.
func (r *PatientRepository) GetDetails(ctx context.Context, id int) (*model.PatientDetails, error) {
	defer logger.DeferLogDuration("patient.GetDetails", time.Now())()
	d := &model.PatientDetails{}
	row := r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id)
	if err := scanPatient(row, &d.Patient); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("patientRepo.GetDetails: %w", err)
	}

	appts, err := r.appointments(ctx, id)
	if err != nil {
		return nil, err
	}
	tests, err := r.labTests(ctx, id)
	if err != nil {
		return nil, err
	}
	invs, err := r.invoices(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Appointments, d.LabTests, d.Invoices = appts, tests, invs
	return d, nil
}

// Update сохраняет все редактируемые поля карточки пациента.
func (r *PatientRepository) Update(ctx context.Context, id int, p *model.Patient) (*model.Patient, error) {
	defer logger.DeferLogDuration("patient.Update", time.Now())()
	out := &model.Patient{}
	row := r.pool.QueryRow(ctx,
		`UPDATE patients
		 SET first_name = $1, last_name = $2, date_of_birth = $3, gender = $4, address = $5,
		     contact = $6, email = $7, emergency_contact = $8, blood_group = $9, allergies = $10,
		     medical_history = $11, status = $12, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $13
		 RETURNING `+patientCols,
		p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.Address, p.Contact, p.Email, p.EmergencyContact, p.BloodGroup, p.Allergies, p.MedicalHistory, p.Status, id)
	if err := scanPatient(row, out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("patientRepo.Update: %w", err)
	}
	return out, nil
}

func (r *PatientRepository) appointments(ctx context.Context, patientID int) ([]model.PatientAppointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.appointment_id, a.date, a.time::text, a.type, a.status, u.name, d.name
		 FROM appointments a
		 JOIN users u ON a.doctor_id = u.id
		 JOIN departments d ON a.department_id = d.id
		 WHERE a.patient_id = $1
		 ORDER BY a.date DESC, a.time DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("patientRepo.appointments: %w", err)
	}
	defer rows.Close()
	appts := make([]model.PatientAppointment, 0)
	for rows.Next() {
		var a model.PatientAppointment
		if err := rows.Scan(&a.ID, &a.AppointmentID, &a.Date, &a.Time, &a.Type, &a.Status, &a.DoctorName, &a.Department); err != nil {
			return nil, fmt.Errorf("patientRepo.appointments scan: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func (r *PatientRepository) labTests(ctx context.Context, patientID int) ([]model.PatientLabTest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, test_name, request_date, status, result
		 FROM lab_tests WHERE patient_id = $1
		 ORDER BY request_date DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("patientRepo.labTests: %w", err)
	}
	defer rows.Close()
	tests := make([]model.PatientLabTest, 0)
	for rows.Next() {
		var t model.PatientLabTest
		if err := rows.Scan(&t.ID, &t.TestID, &t.TestName, &t.RequestDate, &t.Status, &t.Result); err != nil {
			return nil, fmt.Errorf("patientRepo.labTests scan: %w", err)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func (r *PatientRepository) invoices(ctx context.Context, patientID int) ([]model.PatientInvoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, date, CAST(amount AS FLOAT), status
		 FROM invoices WHERE patient_id = $1
		 ORDER BY date DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("patientRepo.invoices: %w", err)
	}
	defer rows.Close()
	invs := make([]model.PatientInvoice, 0)
	for rows.Next() {
		var i model.PatientInvoice
		if err := rows.Scan(&i.ID, &i.InvoiceID, &i.Date, &i.Amount, &i.Status); err != nil {
			return nil, fmt.Errorf("patientRepo.invoices scan: %w", err)
		}
		invs = append(invs, i)
	}
	return invs, rows.Err()
}
