package movements

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
	"github.com/sisas-salud/sisas-api/pkg/retry"
)

// Actor identifica al usuario que origina el movimiento. Municipality es su
// municipio asignado y actúa como fallback cuando la petición no trae uno.
type Actor struct {
	UserID       string
	Municipality string
}

// RegisterMovementUseCase aplica movimientos de ingreso/egreso contra el stock
// por municipio, de forma transaccional con bloqueo de filas (SELECT FOR UPDATE
// NOWAIT) y reintentos lineales ante contención de la base de datos.
type RegisterMovementUseCase struct {
	txRunner         TxRunner
	materialRepo     repository.MaterialRepository
	municipalityRepo repository.MunicipalityRepository
	retry            retry.Strategy
}

// NewRegisterMovementUseCase construye el caso de uso con la estrategia de
// reintentos por defecto (5 intentos, backoff lineal de 100ms).
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	materialRepo repository.MaterialRepository,
	municipalityRepo repository.MunicipalityRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:         txRunner,
		materialRepo:     materialRepo,
		municipalityRepo: municipalityRepo,
		retry:            retry.Default(),
	}
}

// WithRetryStrategy reemplaza la estrategia de reintentos (tests).
func (uc *RegisterMovementUseCase) WithRetryStrategy(s retry.Strategy) *RegisterMovementUseCase {
	uc.retry = s
	return uc
}

// prepared es un movimiento ya validado y con municipio resuelto por id.
// La transacción posterior solo hace lookups determinísticos.
type prepared struct {
	movementType string
	materialID   int64
	quantity     int64
	notes        string
	municipality *entity.Municipality
}

// Register valida y aplica un movimiento. Toda la validación ocurre antes de
// tomar cualquier bloqueo; la aplicación es una única transacción que actualiza
// stock del municipio, re-suma el agregado del material e inserta el movimiento.
func (uc *RegisterMovementUseCase) Register(ctx context.Context, actor Actor, in dto.MovementRequest) (*entity.Movement, error) {
	p, err := uc.prepare(in, newFallbackResolver(uc.municipalityRepo, actor.Municipality), map[int64]*entity.Municipality{})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	batchID := uuid.New().String()
	var result *entity.Movement
	err = uc.runWrite(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.MunicipalityStockRepository,
		materialRepo repository.MaterialRepository,
	) error {
		mov, err := applyPrepared(movRepo, stockRepo, materialRepo, p, actor, batchID, now)
		if err != nil {
			return err
		}
		result = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RegisterBulk valida todos los ítems por adelantado y los aplica en una sola
// transacción en el orden recibido: todo o nada. Si un ítem intermedio queda
// sin stock suficiente, ningún movimiento del lote se persiste. Los ítems
// aplicados comparten BatchID.
func (uc *RegisterMovementUseCase) RegisterBulk(ctx context.Context, actor Actor, items []dto.MovementRequest) ([]*entity.Movement, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	fallback := newFallbackResolver(uc.municipalityRepo, actor.Municipality)
	cache := map[int64]*entity.Municipality{}
	preparedItems := make([]*prepared, 0, len(items))
	for _, in := range items {
		p, err := uc.prepare(in, fallback, cache)
		if err != nil {
			return nil, err
		}
		preparedItems = append(preparedItems, p)
	}

	now := time.Now()
	batchID := uuid.New().String()
	var results []*entity.Movement
	err := uc.runWrite(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.MunicipalityStockRepository,
		materialRepo repository.MaterialRepository,
	) error {
		results = results[:0]
		for _, p := range preparedItems {
			mov, err := applyPrepared(movRepo, stockRepo, materialRepo, p, actor, batchID, now)
			if err != nil {
				return err
			}
			results = append(results, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// prepare valida un ítem y resuelve su municipio, sin tocar filas bloqueables.
func (uc *RegisterMovementUseCase) prepare(in dto.MovementRequest, fallback *fallbackResolver, cache map[int64]*entity.Municipality) (*prepared, error) {
	movementType := strings.ToLower(strings.TrimSpace(in.Type))
	if movementType != entity.MovementTypeIngreso && movementType != entity.MovementTypeEgreso {
		return nil, domain.ErrInvalidMovementType
	}

	materialID, err := parsePositiveID(in.MaterialID)
	if err != nil {
		return nil, err
	}
	quantity, err := parseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	municipalityID, err := parseOptionalID(in.MunicipalityID)
	if err != nil {
		return nil, err
	}

	material, err := uc.materialRepo.GetByID(materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrMaterialNotFound
	}

	var municipality *entity.Municipality
	if municipalityID != nil {
		if cached, ok := cache[*municipalityID]; ok {
			municipality = cached
		} else {
			municipality, err = uc.municipalityRepo.GetByID(*municipalityID)
			if err != nil {
				return nil, err
			}
			if municipality == nil {
				return nil, domain.ErrInvalidReference
			}
			cache[*municipalityID] = municipality
		}
	} else {
		municipality, err = fallback.resolve()
		if err != nil {
			return nil, err
		}
	}

	return &prepared{
		movementType: movementType,
		materialID:   materialID,
		quantity:     quantity,
		notes:        strings.TrimSpace(in.Notes),
		municipality: municipality,
	}, nil
}

// runWrite envuelve la transacción con la estrategia de reintentos: solo la
// contención transitoria de bloqueos (ErrStoreBusy) se reintenta; las reglas de
// negocio fallan de inmediato. Al agotar intentos devuelve ErrServiceBusy.
func (uc *RegisterMovementUseCase) runWrite(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.MunicipalityStockRepository,
	materialRepo repository.MaterialRepository,
) error) error {
	err := uc.retry.Do(ctx,
		func(err error) bool { return errors.Is(err, domain.ErrStoreBusy) },
		func() error { return uc.txRunner.Run(ctx, fn) },
	)
	if errors.Is(err, retry.ErrExhausted) {
		return domain.ErrServiceBusy
	}
	return err
}

// applyPrepared ejecuta un ítem dentro de la transacción del caller:
//  1. bloquea la fila del material,
//  2. bloquea (o crea con stock 0) la fila de stock del municipio,
//  3. verifica suficiencia en egresos,
//  4. aplica el delta al stock,
//  5. re-suma el agregado físico del material (SUM completo, no delta),
//  6. inserta el movimiento en el libro.
func applyPrepared(
	movRepo repository.MovementRepository,
	stockRepo repository.MunicipalityStockRepository,
	materialRepo repository.MaterialRepository,
	p *prepared,
	actor Actor,
	batchID string,
	now time.Time,
) (*entity.Movement, error) {
	material, err := materialRepo.GetForUpdate(p.materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrMaterialNotFound
	}

	stock, err := stockRepo.GetForUpdate(p.municipality.ID, p.materialID)
	if err != nil {
		return nil, err
	}

	if p.movementType == entity.MovementTypeEgreso {
		if stock.Stock < p.quantity {
			return nil, domain.ErrInsufficientStock
		}
		stock.Stock -= p.quantity
	} else {
		stock.Stock += p.quantity
	}
	if err := stockRepo.UpdateStock(stock.ID, stock.Stock); err != nil {
		return nil, err
	}

	// Re-suma completa en lugar de delta incremental: inmune a ediciones de
	// stock hechas fuera del motor.
	total, err := stockRepo.SumByMaterial(p.materialID)
	if err != nil {
		return nil, err
	}
	if err := materialRepo.UpdatePhysicalStock(p.materialID, total); err != nil {
		return nil, err
	}

	municipalityID := p.municipality.ID
	mov := &entity.Movement{
		BatchID:          batchID,
		Type:             p.movementType,
		MaterialID:       p.materialID,
		MunicipalityID:   &municipalityID,
		Quantity:         p.quantity,
		Notes:            p.notes,
		CreatedAt:        now,
		MaterialName:     material.Name,
		MaterialCode:     material.Code,
		MaterialCategory: material.Category,
		MunicipalityName: p.municipality.Name,
	}
	if actor.UserID != "" {
		userID := actor.UserID
		mov.UserID = &userID
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// fallbackResolver resuelve el municipio del actor una sola vez por llamada,
// aunque el lote tenga muchos ítems sin municipio explícito.
type fallbackResolver struct {
	repo     repository.MunicipalityRepository
	name     string
	resolved *entity.Municipality
	done     bool
}

func newFallbackResolver(repo repository.MunicipalityRepository, name string) *fallbackResolver {
	return &fallbackResolver{repo: repo, name: name}
}

func (f *fallbackResolver) resolve() (*entity.Municipality, error) {
	if f.done {
		if f.resolved == nil {
			return nil, domain.ErrMunicipalityMissing
		}
		return f.resolved, nil
	}
	f.done = true
	m, err := resolveMunicipality(f.repo, f.name)
	if err != nil {
		return nil, err
	}
	f.resolved = m
	return m, nil
}
