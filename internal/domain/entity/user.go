package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User representa un usuario del sistema. Los clientes pertenecen a una Company;
// los administradores no (CompanyID vacío).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, client
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
