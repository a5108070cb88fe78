package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hospital/internal/logger"
	"github.com/hospital/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// DashboardStats — счётчики верхней панели: пациенты, приёмы и анализы за
// сегодня, активный персонал.
func (r *ReportRepository) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	defer logger.DeferLogDuration("report.DashboardStats", time.Now())()
	s := &model.DashboardStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM patients),
		        (SELECT COUNT(*) FROM appointments WHERE date = CURRENT_DATE),
		        (SELECT COUNT(*) FROM users WHERE status = 'Active'),
		        (SELECT COUNT(*) FROM lab_tests WHERE request_date = CURRENT_DATE)`,
	).Scan(&s.PatientCount, &s.TodayAppointments, &s.ActiveStaff, &s.TodayLabTests)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.DashboardStats: %w", err)
	}
	return s, nil
}

// Overview — помесячный ряд поступлений/выписок за последние 7 месяцев.
func (r *ReportRepository) Overview(ctx context.Context) ([]model.OverviewPoint, error) {
	defer logger.DeferLogDuration("report.Overview", time.Now())()
	rows, err := r.pool.Query(ctx,
		`WITH months AS (
		   SELECT generate_series(1, 7) AS month_num
		 ),
		 admissions AS (
		   SELECT EXTRACT(MONTH FROM created_at) AS month, COUNT(*) AS count
		   FROM patients
		   WHERE created_at >= CURRENT_DATE - INTERVAL '7 months'
		   GROUP BY EXTRACT(MONTH FROM created_at)
		 ),
		 discharges AS (
		   SELECT EXTRACT(MONTH FROM updated_at) AS month, COUNT(*) AS count
		   FROM patients
		   WHERE status = 'Discharged' AND updated_at >= CURRENT_DATE - INTERVAL '7 months'
		   GROUP BY EXTRACT(MONTH FROM updated_at)
		 )
		 SELECT TO_CHAR(TO_DATE(m.month_num::text, 'MM'), 'Mon'),
		        COALESCE(a.count, 0)::int, COALESCE(d.count, 0)::int
		 FROM months m
		 LEFT JOIN admissions a ON m.month_num = a.month
		 LEFT JOIN discharges d ON m.month_num = d.month
		 ORDER BY m.month_num`)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.Overview: %w", err)
	}
	defer rows.Close()
	points := make([]model.OverviewPoint, 0, 7)
	for rows.Next() {
		var p model.OverviewPoint
		if err := rows.Scan(&p.Name, &p.Admissions, &p.Discharges); err != nil {
			return nil, fmt.Errorf("reportRepo.Overview scan: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// RecentPatients — пять последних поступивших.
func (r *ReportRepository) RecentPatients(ctx context.Context) ([]model.RecentPatient, error) {
	defer logger.DeferLogDuration("report.RecentPatients", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT id, patient_id, first_name || ' ' || last_name, created_at, status
		 FROM patients
		 ORDER BY created_at DESC
		 LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.RecentPatients: %w", err)
	}
	defer rows.Close()
	items := make([]model.RecentPatient, 0, 5)
	for rows.Next() {
		var p model.RecentPatient
		if err := rows.Scan(&p.ID, &p.PatientID, &p.Name, &p.DateAdmitted, &p.Status); err != nil {
			return nil, fmt.Errorf("reportRepo.RecentPatients scan: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// ReportFilter — необязательные границы периода и отделение.
// Пустые значения означают «без фильтра» (в SQL передаются как NULL).
type ReportFilter struct {
	From       *time.Time
	To         *time.Time
	Department *string
}

// Report собирает сводный отчёт: агрегаты по пациентам, приёмам, выручке и
// складу плюс разбивки для графиков.
func (r *ReportRepository) Report(ctx context.Context, f ReportFilter) (*model.Report, error) {
	defer logger.DeferLogDuration("report.Report", time.Now())()
	rep := &model.Report{}

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(CASE WHEN created_at >= CURRENT_DATE - INTERVAL '30 days' THEN 1 END),
		        COUNT(CASE WHEN status = 'Admitted' THEN 1 END),
		        COUNT(CASE WHEN status = 'Discharged' THEN 1 END)
		 FROM patients
		 WHERE ($1::timestamptz IS NULL OR created_at BETWEEN $1 AND $2)`,
		f.From, f.To,
	).Scan(&rep.Patients.Total, &rep.Patients.New, &rep.Patients.Admitted, &rep.Patients.Discharged)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.Report patients: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(CASE WHEN status = 'Completed' THEN 1 END),
		        COUNT(CASE WHEN status = 'Cancelled' THEN 1 END),
		        COUNT(CASE WHEN status = 'No-show' THEN 1 END)
		 FROM appointments
		 WHERE ($1::date IS NULL OR date BETWEEN $1 AND $2)`,
		f.From, f.To,
	).Scan(&rep.Appointments.Total, &rep.Appointments.Completed, &rep.Appointments.Cancelled, &rep.Appointments.NoShow)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.Report appointments: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::float,
		        COALESCE(SUM(CASE WHEN status = 'Pending' THEN amount ELSE 0 END), 0)::float,
		        COALESCE(AVG(amount), 0)::float,
		        (SELECT COALESCE(SUM(amount), 0)::float
		         FROM medicine_purchases
		         WHERE ($1::date IS NULL OR purchase_date BETWEEN $1 AND $2))
		 FROM invoices
		 WHERE ($1::date IS NULL OR date BETWEEN $1 AND $2)`,
		f.From, f.To,
	).Scan(&rep.Revenue.Total, &rep.Revenue.Outstanding, &rep.Revenue.AverageBill, &rep.Revenue.Expenses)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.Report revenue: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity * COALESCE((
		          SELECT amount FROM medicine_purchases mp
		          WHERE mp.medicine_id = m.id
		          ORDER BY purchase_date DESC LIMIT 1), 0)), 0)::float,
		        COUNT(CASE WHEN quantity < 10 THEN 1 END),
		        COUNT(CASE WHEN expiry_date < CURRENT_DATE THEN 1 END),
		        (SELECT COALESCE(SUM(amount), 0)::float
		         FROM medicine_sales
		         WHERE sale_date >= CURRENT_DATE - INTERVAL '30 days')
		 FROM medicines m`,
	).Scan(&rep.Medicine.TotalStockValue, &rep.Medicine.LowStockItems, &rep.Medicine.ExpiredItems, &rep.Medicine.MonthlyUsage)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.Report medicine: %w", err)
	}

	rep.PatientAdmissions, err = r.patientAdmissions(ctx, f)
	if err != nil {
		return nil, err
	}
	rep.AppointmentsByDepartment, err = r.appointmentsByDepartment(ctx, f)
	if err != nil {
		return nil, err
	}
	rep.RevenueByDepartment, err = r.revenueByDepartment(ctx, f)
	if err != nil {
		return nil, err
	}
	rep.MedicineByCategory, err = r.medicineByCategory(ctx)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *ReportRepository) patientAdmissions(ctx context.Context, f ReportFilter) ([]model.MonthCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DATE_TRUNC('month', created_at), COUNT(*)::int
		 FROM patients
		 WHERE ($1::timestamptz IS NULL OR created_at BETWEEN $1 AND $2)
		 GROUP BY DATE_TRUNC('month', created_at)
		 ORDER BY DATE_TRUNC('month', created_at)`,
		f.From, f.To)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.patientAdmissions: %w", err)
	}
	defer rows.Close()
	items := make([]model.MonthCount, 0)
	for rows.Next() {
		var m model.MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, fmt.Errorf("reportRepo.patientAdmissions scan: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *ReportRepository) appointmentsByDepartment(ctx context.Context, f ReportFilter) ([]model.DepartmentCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.name, COUNT(*)::int
		 FROM appointments a
		 JOIN departments d ON a.department_id = d.id
		 WHERE ($1::date IS NULL OR a.date BETWEEN $1 AND $2)
		   AND ($3::text IS NULL OR d.name = $3)
		 GROUP BY d.name`,
		f.From, f.To, f.Department)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.appointmentsByDepartment: %w", err)
	}
	defer rows.Close()
	items := make([]model.DepartmentCount, 0)
	for rows.Next() {
		var d model.DepartmentCount
		if err := rows.Scan(&d.Department, &d.Count); err != nil {
			return nil, fmt.Errorf("reportRepo.appointmentsByDepartment scan: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *ReportRepository) revenueByDepartment(ctx context.Context, f ReportFilter) ([]model.DepartmentAmount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.name, COALESCE(SUM(i.amount), 0)::float
		 FROM appointments a
		 JOIN departments d ON a.department_id = d.id
		 JOIN invoices i ON i.patient_id = a.patient_id
		 WHERE ($1::date IS NULL OR i.date BETWEEN $1 AND $2)
		   AND ($3::text IS NULL OR d.name = $3)
		 GROUP BY d.name`,
		f.From, f.To, f.Department)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.revenueByDepartment: %w", err)
	}
	defer rows.Close()
	items := make([]model.DepartmentAmount, 0)
	for rows.Next() {
		var d model.DepartmentAmount
		if err := rows.Scan(&d.Department, &d.Amount); err != nil {
			return nil, fmt.Errorf("reportRepo.revenueByDepartment scan: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *ReportRepository) medicineByCategory(ctx context.Context) ([]model.CategoryCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, COUNT(*)::int FROM medicines GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.medicineByCategory: %w", err)
	}
	defer rows.Close()
	items := make([]model.CategoryCount, 0)
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("reportRepo.medicineByCategory scan: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
