package entity

import "time"

// Roles válidos para User.
const (
	RoleAdministrador = "administrador"
	RoleUsuario       = "usuario"
	RoleConsultor     = "consultor" // solo lectura
)

// User representa un usuario del sistema. Municipality es el municipio asignado
// al usuario; el motor de movimientos lo usa como fallback cuando la petición
// no trae municipio explícito.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca plano en dominio después de persistir
	Name         string
	Role         string // administrador, usuario, consultor
	Municipality string // nombre del municipio asignado, puede estar vacío
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
