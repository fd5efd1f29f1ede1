package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
	RoleCajero   = "cajero"
)

// User representa un usuario del sistema.
type User struct {
	ID                string
	Email             string
	PasswordHash      string // bcrypt hash, nunca plano en dominio después de persistir
	FullName          string
	Role              string // admin, vendedor, cajero
	Status            string // active, inactive, suspended
	CanManageDeposits bool   // permiso explícito para el libro de depósitos
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
