package entity

import "time"

// MunicipalityStock es el stock actual de un material en un municipio.
// Única por (municipio, material); Stock nunca es negativo tras un commit.
type MunicipalityStock struct {
	ID             int64
	MunicipalityID int64
	MaterialID     int64
	Stock          int64
	UpdatedAt      time.Time

	// Nombres denormalizados para listados (join en lectura, no persistidos aquí).
	MunicipalityName string
	MaterialName     string
}
