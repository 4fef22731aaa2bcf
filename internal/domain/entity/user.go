package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
	RoleCashier    = "cashier"
)

// User representa un usuario del punto de venta.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	Name         string
	Role         string // admin, pharmacist, cashier
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
