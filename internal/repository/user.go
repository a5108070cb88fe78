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

// userCols — список колонок для SELECT (порядок соответствует scanUser).
const userCols = `id, name, email, password, role, department_id, status, created_at, updated_at, last_active`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(s interface{ Scan(dest ...any) error }, u *model.User) error {
	return s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.DepartmentID, &u.Status, &u.CreatedAt, &u.UpdatedAt, &u.LastActive)
}

// Create вставляет пользователя и возвращает присвоенный id.
func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash, role string, departmentID *int) (int, error) {
	defer logger.DeferLogDuration("user.Create", time.Now())()
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password, role, department_id, status, last_active)
		 VALUES ($1, $2, $3, $4, $5, 'Active', CURRENT_TIMESTAMP)
		 RETURNING id`,
		name, email, passwordHash, role, departmentID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("userRepo.Create: %w", err)
	}
	return id, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	defer logger.DeferLogDuration("user.GetByEmail", time.Now())()
	u := &model.User{}
	row := r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	defer logger.DeferLogDuration("user.GetByID", time.Now())()
	u := &model.User{}
	row := r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}
	return u, nil
}

// ExistsByEmail — проверка занятости email при регистрации.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	defer logger.DeferLogDuration("user.ExistsByEmail", time.Now())()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("userRepo.ExistsByEmail: %w", err)
	}
	return exists, nil
}

// TouchLastActive обновляет отметку активности. Вызывается best-effort при
// входе: ошибка логируется вызывающим и не прерывает вход.
func (r *UserRepository) TouchLastActive(ctx context.Context, userID int) error {
	defer logger.DeferLogDuration("user.TouchLastActive", time.Now())()
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_active = CURRENT_TIMESTAMP WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("userRepo.TouchLastActive: %w", err)
	}
	return nil
}

// List возвращает персонал с названиями отделений.
func (r *UserRepository) List(ctx context.Context) ([]model.UserListItem, error) {
	defer logger.DeferLogDuration("user.List", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email, u.role, d.name, u.status, u.last_active
		 FROM users u
		 LEFT JOIN departments d ON u.department_id = d.id
		 ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("userRepo.List: %w", err)
	}
	defer rows.Close()
	items := make([]model.UserListItem, 0)
	for rows.Next() {
		var it model.UserListItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Email, &it.Role, &it.Department, &it.Status, &it.LastActive); err != nil {
			return nil, fmt.Errorf("userRepo.List scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListDoctors — активные врачи для форм назначения приёмов и исследований.
func (r *UserRepository) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	defer logger.DeferLogDuration("user.ListDoctors", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.role, u.department_id, d.name
		 FROM users u
		 LEFT JOIN departments d ON u.department_id = d.id
		 WHERE u.role = 'Doctor' AND u.status = 'Active'
		 ORDER BY u.name`)
	if err != nil {
		return nil, fmt.Errorf("userRepo.ListDoctors: %w", err)
	}
	defer rows.Close()
	docs := make([]model.Doctor, 0)
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Role, &d.DepartmentID, &d.Department); err != nil {
			return nil, fmt.Errorf("userRepo.ListDoctors scan: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Update обновляет профиль сотрудника (без пароля).
func (r *UserRepository) Update(ctx context.Context, id int, name, email, role string, departmentID *int, status string) (*model.User, error) {
	defer logger.DeferLogDuration("user.Update", time.Now())()
	u := &model.User{}
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET name = $1, email = $2, role = $3, department_id = $4, status = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6
		 RETURNING `+userCols,
		name, email, role, departmentID, status, id)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.Update: %w", err)
	}
	return u, nil
}

// UpdatePassword сохраняет новый хеш пароля (сброс пароля администратором).
func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) (*model.UserPublic, error) {
	defer logger.DeferLogDuration("user.UpdatePassword", time.Now())()
	p := &model.UserPublic{}
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET password = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
		 RETURNING id, name, email, role`,
		passwordHash, id,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.UpdatePassword: %w", err)
	}
	return p, nil
}

// GetDetails — карточка сотрудника: профиль, отделение, приёмы и назначенные исследования.
func (r *UserRepository) GetDetails(ctx context.Context, id int) (*model.User, *string, []model.DoctorAppointment, []model.PatientLabTest, error) {
	defer logger.DeferLogDuration("user.GetDetails", time.Now())()
	u := &model.User{}
	var deptName *string
	row := r.pool.QueryRow(ctx,
		`SELECT u.id, u.name, u.email, u.password, u.role, u.department_id, u.status,
		        u.created_at, u.updated_at, u.last_active, d.name
		 FROM users u LEFT JOIN departments d ON u.department_id = d.id
		 WHERE u.id = $1`, id)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.DepartmentID, &u.Status, &u.CreatedAt, &u.UpdatedAt, &u.LastActive, &deptName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, nil, fmt.Errorf("userRepo.GetDetails: %w", err)
	}

	appts, err := r.doctorAppointments(ctx, id)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	tests, err := r.requestedLabTests(ctx, id)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return u, deptName, appts, tests, nil
}

func (r *UserRepository) doctorAppointments(ctx context.Context, doctorID int) ([]model.DoctorAppointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.appointment_id, a.date, a.time::text, a.type, a.status,
		        p.first_name || ' ' || p.last_name
		 FROM appointments a
		 JOIN patients p ON a.patient_id = p.id
		 WHERE a.doctor_id = $1
		 ORDER BY a.date DESC, a.time DESC`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("userRepo.doctorAppointments: %w", err)
	}
	defer rows.Close()
	appts := make([]model.DoctorAppointment, 0)
	for rows.Next() {
		var a model.DoctorAppointment
		if err := rows.Scan(&a.ID, &a.AppointmentID, &a.Date, &a.Time, &a.Type, &a.Status, &a.PatientName); err != nil {
			return nil, fmt.Errorf("userRepo.doctorAppointments scan: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func (r *UserRepository) requestedLabTests(ctx context.Context, doctorID int) ([]model.PatientLabTest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, test_name, request_date, status, result
		 FROM lab_tests WHERE requested_by = $1
		 ORDER BY request_date DESC`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("userRepo.requestedLabTests: %w", err)
	}
	defer rows.Close()
	tests := make([]model.PatientLabTest, 0)
	for rows.Next() {
		var t model.PatientLabTest
		if err := rows.Scan(&t.ID, &t.TestID, &t.TestName, &t.RequestDate, &t.Status, &t.Result); err != nil {
			return nil, fmt.Errorf("userRepo.requestedLabTests scan: %w", err)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}
