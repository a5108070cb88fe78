package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hospital/internal/logger"
	"github.com/hospital/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// List — расписание приёмов с именами пациента, врача и отделения.
func (r *AppointmentRepository) List(ctx context.Context) ([]model.AppointmentListItem, error) {
	defer logger.DeferLogDuration("appointment.List", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.appointment_id,
		        p.first_name || ' ' || p.last_name, p.patient_id,
		        u.name, d.name,
		        a.date, a.time::text, a.type, a.status
		 FROM appointments a
		 JOIN patients p ON a.patient_id = p.id
		 JOIN users u ON a.doctor_id = u.id
		 JOIN departments d ON a.department_id = d.id
		 ORDER BY a.date DESC, a.time DESC`)
	if err != nil {
		return nil, fmt.Errorf("appointmentRepo.List: %w", err)
	}
	defer rows.Close()
	items := make([]model.AppointmentListItem, 0)
	for rows.Next() {
		var it model.AppointmentListItem
		if err := rows.Scan(&it.ID, &it.AppointmentID, &it.PatientName, &it.PatientID, &it.DoctorName, &it.Department, &it.Date, &it.Time, &it.Type, &it.Status); err != nil {
			return nil, fmt.Errorf("appointmentRepo.List scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create записывает приём со сгенерированным номером APT-xxxxxxxxx и статусом Scheduled.
func (r *AppointmentRepository) Create(ctx context.Context, patientID, doctorID, departmentID int, date, timeOfDay, apptType string, notes *string) (int, string, error) {
	defer logger.DeferLogDuration("appointment.Create", time.Now())()
	appointmentID := GenerateID("APT")
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO appointments (appointment_id, patient_id, doctor_id, department_id, date, time, type, notes, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'Scheduled')
		 RETURNING id`,
		appointmentID, patientID, doctorID, departmentID, date, timeOfDay, apptType, notes,
	).Scan(&id)
	if err != nil {
		return 0, "", fmt.Errorf("appointmentRepo.Create: %w", err)
	}
	return id, appointmentID, nil
}
