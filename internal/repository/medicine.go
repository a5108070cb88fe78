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

const medicineCols = `id, medicine_id, name, category, supplier, quantity, unit, expiry_date, status, created_at, updated_at`

type MedicineRepository struct {
	pool *pgxpool.Pool
}

func NewMedicineRepository(pool *pgxpool.Pool) *MedicineRepository {
	return &MedicineRepository{pool: pool}
}

func scanMedicine(s interface{ Scan(dest ...any) error }, m *model.Medicine) error {
	return s.Scan(&m.ID, &m.MedicineID, &m.Name, &m.Category, &m.Supplier, &m.Quantity, &m.Unit, &m.ExpiryDate, &m.Status, &m.CreatedAt, &m.UpdatedAt)
}

// ListStock — складской остаток.
func (r *MedicineRepository) ListStock(ctx context.Context) ([]model.Medicine, error) {
	defer logger.DeferLogDuration("medicine.ListStock", time.Now())()
	rows, err := r.pool.Query(ctx, `SELECT `+medicineCols+` FROM medicines ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("medicineRepo.ListStock: %w", err)
	}
	defer rows.Close()
	meds := make([]model.Medicine, 0)
	for rows.Next() {
		var m model.Medicine
		if err := scanMedicine(rows, &m); err != nil {
			return nil, fmt.Errorf("medicineRepo.ListStock scan: %w", err)
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

// ListPurchases — журнал закупок.
func (r *MedicineRepository) ListPurchases(ctx context.Context) ([]model.MedicinePurchase, error) {
	defer logger.DeferLogDuration("medicine.ListPurchases", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT mp.id, mp.purchase_id, m.medicine_id, m.name, mp.supplier, mp.quantity, mp.unit,
		        mp.purchase_date, CAST(mp.amount AS FLOAT), mp.status
		 FROM medicine_purchases mp
		 JOIN medicines m ON mp.medicine_id = m.id
		 ORDER BY mp.purchase_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("medicineRepo.ListPurchases: %w", err)
	}
	defer rows.Close()
	items := make([]model.MedicinePurchase, 0)
	for rows.Next() {
		var p model.MedicinePurchase
		if err := rows.Scan(&p.ID, &p.PurchaseID, &p.MedicineID, &p.MedicineName, &p.Supplier, &p.Quantity, &p.Unit, &p.PurchaseDate, &p.Amount, &p.Status); err != nil {
			return nil, fmt.Errorf("medicineRepo.ListPurchases scan: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// ListSales — журнал отпуска препаратов пациентам.
func (r *MedicineRepository) ListSales(ctx context.Context) ([]model.MedicineSale, error) {
	defer logger.DeferLogDuration("medicine.ListSales", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT ms.id, ms.sale_id, m.medicine_id, m.name,
		        p.patient_id, p.first_name || ' ' || p.last_name,
		        ms.quantity, ms.unit, ms.sale_date, CAST(ms.amount AS FLOAT)
		 FROM medicine_sales ms
		 JOIN medicines m ON ms.medicine_id = m.id
		 JOIN patients p ON ms.patient_id = p.id
		 ORDER BY ms.sale_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("medicineRepo.ListSales: %w", err)
	}
	defer rows.Close()
	items := make([]model.MedicineSale, 0)
	for rows.Next() {
		var s model.MedicineSale
		if err := rows.Scan(&s.ID, &s.SaleID, &s.MedicineID, &s.MedicineName, &s.PatientID, &s.PatientName, &s.Quantity, &s.Unit, &s.SaleDate, &s.Amount); err != nil {
			return nil, fmt.Errorf("medicineRepo.ListSales scan: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// Create добавляет препарат. Статус определяется остатком: < 100 — Low Stock.
func (r *MedicineRepository) Create(ctx context.Context, name string, category, supplier *string, quantity int, unit string, expiryDate *time.Time) (int, string, error) {
	defer logger.DeferLogDuration("medicine.Create", time.Now())()
	medicineID := GenerateID("MED")
	status := model.MedicineInStock
	if quantity < 100 {
		status = model.MedicineLowStock
	}
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO medicines (medicine_id, name, category, supplier, quantity, unit, expiry_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		medicineID, name, category, supplier, quantity, unit, expiryDate, status,
	).Scan(&id)
	if err != nil {
		return 0, "", fmt.Errorf("medicineRepo.Create: %w", err)
	}
	return id, medicineID, nil
}

// GetDetails — карточка препарата с историей закупок и отпуска.
func (r *MedicineRepository) GetDetails(ctx context.Context, id int) (*model.MedicineDetails, error) {
	defer logger.DeferLogDuration("medicine.GetDetails", time.Now())()
	d := &model.MedicineDetails{}
	row := r.pool.QueryRow(ctx, `SELECT `+medicineCols+` FROM medicines WHERE id = $1`, id)
	if err := scanMedicine(row, &d.Medicine); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("medicineRepo.GetDetails: %w", err)
	}

	purchases, err := r.history(ctx,
		`SELECT id, purchase_id, quantity, purchase_date, CAST(amount AS FLOAT), status
		 FROM medicine_purchases WHERE medicine_id = $1 ORDER BY purchase_date DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("medicineRepo.GetDetails purchases: %w", err)
	}
	sales, err := r.history(ctx,
		`SELECT id, sale_id, quantity, sale_date, CAST(amount AS FLOAT), NULL::text
		 FROM medicine_sales WHERE medicine_id = $1 ORDER BY sale_date DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("medicineRepo.GetDetails sales: %w", err)
	}
	d.Purchases, d.Sales = purchases, sales
	return d, nil
}

func (r *MedicineRepository) history(ctx context.Context, query string, id int) ([]model.MedicineHistoryItem, error) {
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.MedicineHistoryItem, 0)
	for rows.Next() {
		var it model.MedicineHistoryItem
		if err := rows.Scan(&it.ID, &it.RecordID, &it.Quantity, &it.Date, &it.Amount, &it.Status); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStock обновляет остаток и статус позиции.
func (r *MedicineRepository) UpdateStock(ctx context.Context, id, quantity int, status string) (*model.Medicine, error) {
	defer logger.DeferLogDuration("medicine.UpdateStock", time.Now())()
	m := &model.Medicine{}
	row := r.pool.QueryRow(ctx,
		`UPDATE medicines SET quantity = $1, status = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3
		 RETURNING `+medicineCols,
		quantity, status, id)
	if err := scanMedicine(row, m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("medicineRepo.UpdateStock: %w", err)
	}
	return m, nil
}
