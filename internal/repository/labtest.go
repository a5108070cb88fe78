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

type LabTestRepository struct {
	pool *pgxpool.Pool
}

func NewLabTestRepository(pool *pgxpool.Pool) *LabTestRepository {
	return &LabTestRepository{pool: pool}
}

// List — журнал исследований с пациентом и назначившим врачом.
func (r *LabTestRepository) List(ctx context.Context) ([]model.LabTestListItem, error) {
	defer logger.DeferLogDuration("labTest.List", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT lt.id, lt.test_id, p.patient_id, p.first_name || ' ' || p.last_name,
		        lt.test_name, u.name, lt.request_date, lt.status, lt.priority
		 FROM lab_tests lt
		 JOIN patients p ON lt.patient_id = p.id
		 JOIN users u ON lt.requested_by = u.id
		 ORDER BY lt.request_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("labTestRepo.List: %w", err)
	}
	defer rows.Close()
	items := make([]model.LabTestListItem, 0)
	for rows.Next() {
		var it model.LabTestListItem
		if err := rows.Scan(&it.ID, &it.TestID, &it.PatientID, &it.PatientName, &it.TestName, &it.RequestedBy, &it.RequestDate, &it.Status, &it.Priority); err != nil {
			return nil, fmt.Errorf("labTestRepo.List scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create регистрирует исследование с номером LAB-xxxxxxxxx и статусом Pending.
func (r *LabTestRepository) Create(ctx context.Context, patientID int, testName string, requestedBy int, requestDate, priority string) (int, string, error) {
	defer logger.DeferLogDuration("labTest.Create", time.Now())()
	testID := GenerateID("LAB")
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO lab_tests (test_id, patient_id, test_name, requested_by, request_date, status, priority, result)
		 VALUES ($1, $2, $3, $4, $5, 'Pending', $6, NULL)
		 RETURNING id`,
		testID, patientID, testName, requestedBy, requestDate, priority,
	).Scan(&id)
	if err != nil {
		return 0, "", fmt.Errorf("labTestRepo.Create: %w", err)
	}
	return id, testID, nil
}

// GetDetails — карточка исследования с данными пациента и врача.
func (r *LabTestRepository) GetDetails(ctx context.Context, id int) (*model.LabTestDetails, error) {
	defer logger.DeferLogDuration("labTest.GetDetails", time.Now())()
	d := &model.LabTestDetails{}
	err := r.pool.QueryRow(ctx,
		`SELECT l.id, l.test_id, l.patient_id, l.test_name, l.requested_by, l.request_date,
		        l.status, l.priority, l.notes, l.result, l.completed_at, l.created_at, l.updated_at,
		        p.first_name, p.last_name, p.patient_id, u.name
		 FROM lab_tests l
		 JOIN patients p ON l.patient_id = p.id
		 JOIN users u ON l.requested_by = u.id
		 WHERE l.id = $1`, id,
	).Scan(&d.ID, &d.TestID, &d.PatientID, &d.TestName, &d.RequestedBy, &d.RequestDate,
		&d.Status, &d.Priority, &d.Notes, &d.Result, &d.CompletedAt, &d.CreatedAt, &d.UpdatedAt,
		&d.PatientFirstName, &d.PatientLastName, &d.PatientNumber, &d.RequestedByName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("labTestRepo.GetDetails: %w", err)
	}
	return d, nil
}

// Update сохраняет статус/результат/заметки; completed_at выставляется один
// раз при переходе в Completed и дальше не сбрасывается.
func (r *LabTestRepository) Update(ctx context.Context, id int, status string, result, notes *string) (*model.LabTest, error) {
	defer logger.DeferLogDuration("labTest.Update", time.Now())()
	t := &model.LabTest{}
	err := r.pool.QueryRow(ctx,
		`UPDATE lab_tests
		 SET status = $1, result = $2, notes = $3,
		     completed_at = CASE WHEN $1 = 'Completed' AND completed_at IS NULL THEN CURRENT_TIMESTAMP ELSE completed_at END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4
		 RETURNING id, test_id, patient_id, test_name, requested_by, request_date, status, priority, notes, result, completed_at, created_at, updated_at`,
		status, result, notes, id,
	).Scan(&t.ID, &t.TestID, &t.PatientID, &t.TestName, &t.RequestedBy, &t.RequestDate, &t.Status, &t.Priority, &t.Notes, &t.Result, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("labTestRepo.Update: %w", err)
	}
	return t, nil
}
