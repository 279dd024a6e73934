package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// KnownRole reports whether role belongs to the closed set of roles the
// storefront understands.
func KnownRole(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Roles        []string  `json:"roles" db:"roles"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
