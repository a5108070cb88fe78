package model

import "time"

// Роли пользователей (фиксированный набор строк, хранится в users.role).
const (
	RoleAdmin  = "Admin"
	RoleDoctor = "Doctor"
	RoleNurse  = "Nurse"
	RoleUser   = "user"
)

// Статусы учётной записи.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	DepartmentID *int       `json:"department_id"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastActive   *time.Time `json:"last_active"`
}

// UserPublic — профиль без хеша пароля; уходит клиенту после входа и в токен.
type UserPublic struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) ToPublic() UserPublic {
	return UserPublic{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserListItem — строка списка персонала (с названием отделения).
type UserListItem struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Department *string    `json:"department"`
	Status     string     `json:"status"`
	LastActive *time.Time `json:"last_active"`
}

// Doctor — врач для выпадающих списков форм (роль Doctor, статус Active).
type Doctor struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	DepartmentID *int    `json:"department_id"`
	Department   *string `json:"department"`
}
