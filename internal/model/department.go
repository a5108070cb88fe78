package model

import "time"

type Department struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// DepartmentOption — id и имя для выпадающих списков форм.
type DepartmentOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
