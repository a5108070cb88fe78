package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hospital/internal/logger"
	"github.com/hospital/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DepartmentRepository struct {
	pool *pgxpool.Pool
}

func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

// List — отделения для выпадающих списков форм.
func (r *DepartmentRepository) List(ctx context.Context) ([]model.DepartmentOption, error) {
	defer logger.DeferLogDuration("department.List", time.Now())()
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("departmentRepo.List: %w", err)
	}
	defer rows.Close()
	opts := make([]model.DepartmentOption, 0)
	for rows.Next() {
		var o model.DepartmentOption
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, fmt.Errorf("departmentRepo.List scan: %w", err)
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}
