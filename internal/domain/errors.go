package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInvalidMovementType = errors.New("tipo de movimiento inválido")
	ErrInvalidQuantity     = errors.New("la cantidad debe ser mayor a cero")
	ErrInvalidReference    = errors.New("referencia inválida")
	ErrMaterialNotFound    = errors.New("material no existe")
	ErrMunicipalityMissing = errors.New("el usuario no tiene municipio asignado")
	ErrInsufficientStock   = errors.New("stock insuficiente en el municipio")

	// ErrStoreBusy marca contención transitoria de bloqueos en la base de datos.
	// La capa postgres lo envuelve; el retry wrapper reintenta solo este error.
	ErrStoreBusy = errors.New("base de datos ocupada")

	// ErrServiceBusy se devuelve al agotar los reintentos sobre ErrStoreBusy.
	ErrServiceBusy = errors.New("base de datos ocupada, intenta de nuevo")
)
