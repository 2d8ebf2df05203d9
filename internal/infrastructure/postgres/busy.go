package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sisas-salud/sisas-api/internal/domain"
)

// Códigos SQLSTATE de contención transitoria de bloqueos. Con FOR UPDATE NOWAIT
// la fila ocupada produce 55P03 en lugar de esperar; 40001/40P01 aparecen en
// serialización y deadlock. Todos son reintentables.
const (
	codeLockNotAvailable  = "55P03"
	codeSerializationFail = "40001"
	codeDeadlockDetected  = "40P01"
)

// markBusy envuelve errores de contención transitoria en domain.ErrStoreBusy
// para que el retry wrapper los distinga de fallas de negocio o integridad.
func markBusy(err error) error {
	if err == nil {
		return nil
	}
	if isLockContention(err) {
		return fmt.Errorf("%w: %v", domain.ErrStoreBusy, err)
	}
	return err
}

func isLockContention(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable, codeSerializationFail, codeDeadlockDetected:
			return true
		}
	}
	return false
}
