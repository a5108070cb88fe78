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

type InvoiceRepository struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// List — реестр счетов с пациентом.
func (r *InvoiceRepository) List(ctx context.Context) ([]model.InvoiceListItem, error) {
	defer logger.DeferLogDuration("invoice.List", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT i.id, i.invoice_id, p.patient_id, p.first_name || ' ' || p.last_name,
		        i.date, i.due_date, CAST(i.amount AS FLOAT), i.status
		 FROM invoices i
		 JOIN patients p ON i.patient_id = p.id
		 ORDER BY i.date DESC`)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	defer rows.Close()
	items := make([]model.InvoiceListItem, 0)
	for rows.Next() {
		var it model.InvoiceListItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.PatientID, &it.PatientName, &it.Date, &it.DueDate, &it.Amount, &it.Status); err != nil {
			return nil, fmt.Errorf("invoiceRepo.List scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create вставляет счёт и его позиции в одной транзакции: либо счёт записан
// целиком с позициями, либо не записан вовсе.
func (r *InvoiceRepository) Create(ctx context.Context, patientID int, date, dueDate string, totalAmount float64, items []model.InvoiceItem) (int, string, error) {
	defer logger.DeferLogDuration("invoice.Create", time.Now())()
	invoiceID := GenerateID("INV")

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("invoiceRepo.Create begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx,
		`INSERT INTO invoices (invoice_id, patient_id, date, due_date, amount, status)
		 VALUES ($1, $2, $3, $4, $5, 'Pending')
		 RETURNING id`,
		invoiceID, patientID, date, dueDate, totalAmount,
	).Scan(&id)
	if err != nil {
		return 0, "", fmt.Errorf("invoiceRepo.Create insert: %w", err)
	}

	for _, item := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO invoice_items (invoice_id, description, amount) VALUES ($1, $2, $3)`,
			id, item.Description, item.Amount,
		); err != nil {
			return 0, "", fmt.Errorf("invoiceRepo.Create item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, "", fmt.Errorf("invoiceRepo.Create commit: %w", err)
	}
	return id, invoiceID, nil
}

// GetByInvoiceID — счёт по бизнес-номеру (INV-...) с позициями, для печатной формы.
func (r *InvoiceRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*model.InvoiceDetails, error) {
	defer logger.DeferLogDuration("invoice.GetByInvoiceID", time.Now())()
	d := &model.InvoiceDetails{}
	err := r.pool.QueryRow(ctx,
		`SELECT i.id, i.invoice_id, i.patient_id, i.date, i.due_date, CAST(i.amount AS FLOAT),
		        i.status, i.notes, i.created_at, i.updated_at,
		        p.first_name, p.last_name, p.patient_id
		 FROM invoices i
		 JOIN patients p ON i.patient_id = p.id
		 WHERE i.invoice_id = $1`, invoiceID,
	).Scan(&d.ID, &d.InvoiceID, &d.PatientID, &d.Date, &d.DueDate, &d.Amount,
		&d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
		&d.PatientFirstName, &d.PatientLastName, &d.PatientNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByInvoiceID: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, description, CAST(amount AS FLOAT) FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, d.ID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByInvoiceID items: %w", err)
	}
	defer rows.Close()
	d.Items = make([]model.InvoiceItem, 0)
	for rows.Next() {
		var it model.InvoiceItem
		if err := rows.Scan(&it.ID, &it.Description, &it.Amount); err != nil {
			return nil, fmt.Errorf("invoiceRepo.GetByInvoiceID items scan: %w", err)
		}
		d.Items = append(d.Items, it)
	}
	return d, rows.Err()
}

// Update меняет статус и заметки счёта.
func (r *InvoiceRepository) Update(ctx context.Context, id int, status string, notes *string) (*model.Invoice, error) {
	defer logger.DeferLogDuration("invoice.Update", time.Now())()
	inv := &model.Invoice{}
	err := r.pool.QueryRow(ctx,
		`UPDATE invoices SET status = $1, notes = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3
		 RETURNING id, invoice_id, patient_id, date, due_date, CAST(amount AS FLOAT), status, notes, created_at, updated_at`,
		status, notes, id,
	).Scan(&inv.ID, &inv.InvoiceID, &inv.PatientID, &inv.Date, &inv.DueDate, &inv.Amount, &inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	return inv, nil
}
