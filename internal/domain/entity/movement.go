package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIngreso = "ingreso" // reabastecimiento
	MovementTypeEgreso  = "egreso"  // despacho
)

// Movement es un evento del libro de movimientos, solo-inserción: una vez creado
// nunca se modifica ni elimina por lógica de negocio. Los saldos en
// MunicipalityStock y Material.PhysicalStock son cachés derivadas que se
// mantienen en la misma transacción que inserta el movimiento.
type Movement struct {
	ID             int64
	BatchID        string // uuid compartido por los ítems de una aplicación masiva
	Type           string
	MaterialID     int64
	MunicipalityID *int64  // nil = histórico/sin asignar
	UserID         *string // nil = movimiento sin usuario registrado
	Quantity       int64   // siempre positiva; el tipo indica el signo
	Notes          string
	CreatedAt      time.Time

	// Denormalizados para listados.
	MaterialName     string
	MaterialCode     string
	MaterialCategory string
	MunicipalityName string
	UserName         string
}
