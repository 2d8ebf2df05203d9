package movements_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisas-salud/sisas-api/internal/application/dto"
	"github.com/sisas-salud/sisas-api/internal/application/movements"
	"github.com/sisas-salud/sisas-api/internal/domain"
	"github.com/sisas-salud/sisas-api/internal/domain/entity"
	"github.com/sisas-salud/sisas-api/internal/domain/repository"
	"github.com/sisas-salud/sisas-api/pkg/retry"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// store estado compartido por los repos fake. Run simula la transacción con
// snapshot + restore: si fn falla no queda ningún cambio, igual que un rollback.
type store struct {
	materials      map[int64]*entity.Material
	municipalities map[int64]*entity.Municipality
	stocks         map[string]*entity.MunicipalityStock
	movements      []*entity.Movement
	nextMunID      int64
	nextStockID    int64
	nextMovID      int64

	busyLeft int // transacciones que fallarán con ErrStoreBusy antes de la primera exitosa
	txRuns   int
}

func newStore() *store {
	return &store{
		materials:      map[int64]*entity.Material{},
		municipalities: map[int64]*entity.Municipality{},
		stocks:         map[string]*entity.MunicipalityStock{},
	}
}

func stockKey(municipalityID, materialID int64) string {
	return fmt.Sprintf("%d:%d", municipalityID, materialID)
}

func (s *store) addMaterial(id int64, code, name string, physical int64) *entity.Material {
	m := &entity.Material{ID: id, Code: code, Name: name, Category: "insumo", PhysicalStock: physical}
	s.materials[id] = m
	return m
}

func (s *store) addMunicipality(id int64, name string) *entity.Municipality {
	m := &entity.Municipality{ID: id, Name: name}
	s.municipalities[id] = m
	if id > s.nextMunID {
		s.nextMunID = id
	}
	return m
}

func (s *store) setStock(municipalityID, materialID, qty int64) {
	s.nextStockID++
	s.stocks[stockKey(municipalityID, materialID)] = &entity.MunicipalityStock{
		ID: s.nextStockID, MunicipalityID: municipalityID, MaterialID: materialID, Stock: qty,
	}
}

func (s *store) stockOf(municipalityID, materialID int64) int64 {
	if row, ok := s.stocks[stockKey(municipalityID, materialID)]; ok {
		return row.Stock
	}
	return 0
}

func (s *store) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.MunicipalityStockRepository,
	materialRepo repository.MaterialRepository,
) error) error {
	s.txRuns++
	if s.busyLeft > 0 {
		s.busyLeft--
		return fmt.Errorf("lock: %w", domain.ErrStoreBusy)
	}

	snapStocks := make(map[string]*entity.MunicipalityStock, len(s.stocks))
	for k, v := range s.stocks {
		cp := *v
		snapStocks[k] = &cp
	}
	snapMaterials := make(map[int64]*entity.Material, len(s.materials))
	for k, v := range s.materials {
		cp := *v
		snapMaterials[k] = &cp
	}
	snapMovs := len(s.movements)
	snapStockID, snapMovID := s.nextStockID, s.nextMovID

	err := fn(&fakeMovementRepo{s}, &fakeStockRepo{s}, &fakeMaterialRepo{s})
	if err != nil {
		s.stocks = snapStocks
		s.materials = snapMaterials
		s.movements = s.movements[:snapMovs]
		s.nextStockID, s.nextMovID = snapStockID, snapMovID
	}
	return err
}

type fakeMaterialRepo struct{ s *store }

func (r *fakeMaterialRepo) Create(*entity.Material) error { return nil }
func (r *fakeMaterialRepo) GetByID(id int64) (*entity.Material, error) {
	return r.s.materials[id], nil
}
func (r *fakeMaterialRepo) GetForUpdate(id int64) (*entity.Material, error) {
	return r.s.materials[id], nil
}
func (r *fakeMaterialRepo) Update(*entity.Material) error { return nil }
func (r *fakeMaterialRepo) UpdatePhysicalStock(id int64, total int64) error {
	if m, ok := r.s.materials[id]; ok {
		m.PhysicalStock = total
	}
	return nil
}
func (r *fakeMaterialRepo) List(string, int, int) ([]*entity.Material, error) { return nil, nil }
func (r *fakeMaterialRepo) Delete(int64) error                                { return nil }

type fakeMunicipalityRepo struct{ s *store }

func (r *fakeMunicipalityRepo) Create(m *entity.Municipality) error {
	r.s.nextMunID++
	m.ID = r.s.nextMunID
	r.s.municipalities[m.ID] = m
	return nil
}
func (r *fakeMunicipalityRepo) GetByID(id int64) (*entity.Municipality, error) {
	return r.s.municipalities[id], nil
}
func (r *fakeMunicipalityRepo) GetByNameFold(name string) (*entity.Municipality, error) {
	for _, m := range r.s.municipalities {
		if equalsFold(m.Name, name) {
			return m, nil
		}
	}
	return nil, nil
}
func (r *fakeMunicipalityRepo) List() ([]*entity.Municipality, error) {
	out := make([]*entity.Municipality, 0, len(r.s.municipalities))
	for _, m := range r.s.municipalities {
		out = append(out, m)
	}
	return out, nil
}
func (r *fakeMunicipalityRepo) Update(*entity.Municipality) error { return nil }
func (r *fakeMunicipalityRepo) Delete(int64) error                { return nil }

func equalsFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

type fakeStockRepo struct{ s *store }

func (r *fakeStockRepo) Get(municipalityID, materialID int64) (*entity.MunicipalityStock, error) {
	return r.s.stocks[stockKey(municipalityID, materialID)], nil
}
func (r *fakeStockRepo) GetForUpdate(municipalityID, materialID int64) (*entity.MunicipalityStock, error) {
	key := stockKey(municipalityID, materialID)
	if row, ok := r.s.stocks[key]; ok {
		return row, nil
	}
	r.s.nextStockID++
	row := &entity.MunicipalityStock{
		ID: r.s.nextStockID, MunicipalityID: municipalityID, MaterialID: materialID, Stock: 0,
	}
	r.s.stocks[key] = row
	return row, nil
}
func (r *fakeStockRepo) Upsert(*entity.MunicipalityStock) (bool, error) { return false, nil }
func (r *fakeStockRepo) UpdateStock(id int64, stock int64) error {
	for _, row := range r.s.stocks {
		if row.ID == id {
			row.Stock = stock
			return nil
		}
	}
	return nil
}
func (r *fakeStockRepo) SumByMaterial(materialID int64) (int64, error) {
	var total int64
	for _, row := range r.s.stocks {
		if row.MaterialID == materialID {
			total += row.Stock
		}
	}
	return total, nil
}
func (r *fakeStockRepo) SumByMunicipality(int64) (int64, error) { return 0, nil }
func (r *fakeStockRepo) ListByMunicipality(int64) ([]*entity.MunicipalityStock, error) {
	return nil, nil
}
func (r *fakeStockRepo) EnsureRows(int64) error                             { return nil }
func (r *fakeStockRepo) List(int, int) ([]*entity.MunicipalityStock, error) { return nil, nil }
func (r *fakeStockRepo) Summary() (map[int64]int64, error)                  { return nil, nil }

type fakeMovementRepo struct{ s *store }

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	r.s.nextMovID++
	m.ID = r.s.nextMovID
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}
func (r *fakeMovementRepo) GetByID(int64) (*entity.Movement, error)      { return nil, nil }
func (r *fakeMovementRepo) GetByIDs([]int64) ([]*entity.Movement, error) { return nil, nil }
func (r *fakeMovementRepo) List(repository.MovementFilter) ([]*entity.Movement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) NetQuantityAfter(int64, time.Time) (int64, error) { return 0, nil }
func (r *fakeMovementRepo) SumByTypeInRange(string, time.Time, time.Time, *int64) (int64, error) {
	return 0, nil
}
func (r *fakeMovementRepo) MonthlySeries(*int64) ([]entity.MonthlyFlow, error) { return nil, nil }
func (r *fakeMovementRepo) ListByMunicipalityMonth(int64, int, time.Month) ([]*entity.Movement, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

// instantRetry sin esperas reales para no alargar los tests.
func instantRetry(maxAttempts int) retry.Strategy {
	return retry.Strategy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}
}

func newUseCase(s *store) *movements.RegisterMovementUseCase {
	return movements.NewRegisterMovementUseCase(s, &fakeMaterialRepo{s}, &fakeMunicipalityRepo{s}).
		WithRetryStrategy(instantRetry(5))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación previa a la transacción
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_TipoInvalido(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMunicipality(1, "Sololá")
	uc := newUseCase(s)

	_, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "traslado", MaterialID: 1, Quantity: 5, MunicipalityID: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovementType)
	assert.Zero(t, s.txRuns, "la validación debe fallar antes de abrir transacción")
}

func TestRegister_TipoNormalizado(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMunicipality(1, "Sololá")
	uc := newUseCase(s)

	mov, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "  INGRESO ", MaterialID: 1, Quantity: 5, MunicipalityID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIngreso, mov.Type)
}

func TestRegister_CantidadInvalida(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMunicipality(1, "Sololá")
	uc := newUseCase(s)

	for _, qty := range []any{0, -3, "abc", "1.5", nil} {
		_, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
			Type: "ingreso", MaterialID: 1, Quantity: qty, MunicipalityID: 1,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %v", qty)
	}
	assert.Zero(t, s.txRuns)
}

func TestRegister_CantidadComoString(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMunicipality(1, "Sololá")
	uc := newUseCase(s)

	// " 12 " y "12.0" son formatos reales de formularios
	mov, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "ingreso", MaterialID: "1", Quantity: " 12 ", MunicipalityID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), mov.Quantity)

	mov, err = uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "ingreso", MaterialID: 1, Quantity: "12.0", MunicipalityID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), mov.Quantity)
}

func TestRegister_MaterialInexistente(t *testing.T) {
	s := newStore()
	s.addMunicipality(1, "Sololá")
	uc := newUseCase(s)

	_, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "ingreso", MaterialID: 99, Quantity: 5, MunicipalityID: 1,
	})
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)
}

func TestRegister_MunicipioPorIDInexistente(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	uc := newUseCase(s)

	_, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "ingreso", MaterialID: 1, Quantity: 5, MunicipalityID: 42,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación: stock, agregado y libro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_IngresoActualizaStockYAgregado(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMunicipality(1, "Sololá")
	s.addMunicipality(2, "Panajachel")
	s.setStock(2, 1, 7) // stock previo en otro municipio
	uc := newUseCase(s)

	mov, err := uc.Register(context.Background(), movements.Actor{UserID: "u-1"}, dto.MovementRequest{
		Type: "ingreso", MaterialID: 1, Quantity: 10, MunicipalityID: 1, Notes: "reabastecimiento",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), s.stockOf(1, 1))
	// agregado = SUM de todos los municipios, no delta
	assert.Equal(t, int64(17), s.materials[1].PhysicalStock)

	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementTypeIngreso, mov.Type)
	assert.Equal(t, "Sololá", mov.MunicipalityName)
	assert.Equal(t, "reabastecimiento", mov.Notes)
	assert.NotEmpty(t, mov.BatchID)
	require.NotNil(t, mov.UserID)
	assert.Equal(t, "u-1", *mov.UserID)
}

func TestRegister_EgresoSinStockSuficiente(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 5)
	s.addMunicipality(1, "Sololá")
	s.setStock(1, 1, 5)
	uc := newUseCase(s)

	_, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "egreso", MaterialID: 1, Quantity: 6, MunicipalityID: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// nada persiste: ni stock ni libro ni agregado
	assert.Equal(t, int64(5), s.stockOf(1, 1))
	assert.Equal(t, int64(5), s.materials[1].PhysicalStock)
	assert.Empty(t, s.movements)
	assert.Equal(t, 1, s.txRuns, "la insuficiencia no debe reintentarse")
}

func TestRegister_EgresoExacto(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 5)
	s.addMunicipality(1, "Sololá")
	s.setStock(1, 1, 5)
	uc := newUseCase(s)

	_, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "egreso", MaterialID: 1, Quantity: 5, MunicipalityID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.stockOf(1, 1))
	assert.Equal(t, int64(0), s.materials[1].PhysicalStock)
}

func TestRegister_EgresoContraFilaInexistente(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMunicipality(1, "Sololá")
	uc := newUseCase(s)

	// el municipio no tiene fila de stock: se crea con 0 y el egreso falla
	_, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "egreso", MaterialID: 1, Quantity: 1, MunicipalityID: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución del municipio fallback
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_FallbackMunicipioDelActor(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	existing := s.addMunicipality(1, "Sololá")
	uc := newUseCase(s)

	// "SOLOLA " debe resolver al municipio existente aunque difiera en acentos,
	// mayúsculas y espacios; no debe crear un casi-duplicado.
	mov, err := uc.Register(context.Background(), movements.Actor{Municipality: "SOLOLA "}, dto.MovementRequest{
		Type: "ingreso", MaterialID: 1, Quantity: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, mov.MunicipalityID)
	assert.Equal(t, existing.ID, *mov.MunicipalityID)
	assert.Len(t, s.municipalities, 1)
}

func TestRegister_FallbackCreaMunicipioNuevo(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	uc := newUseCase(s)

	mov, err := uc.Register(context.Background(), movements.Actor{Municipality: "Panajachel"}, dto.MovementRequest{
		Type: "ingreso", MaterialID: 1, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Panajachel", mov.MunicipalityName)
	assert.Len(t, s.municipalities, 1)
}

func TestRegister_SinMunicipioNiFallback(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	uc := newUseCase(s)

	_, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "ingreso", MaterialID: 1, Quantity: 3,
	})
	assert.ErrorIs(t, err, domain.ErrMunicipalityMissing)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes: todo o nada
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterBulk_TodoONada(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 10)
	s.addMaterial(2, "MAT-002", "Jeringas 5ml", 2)
	s.addMunicipality(1, "Sololá")
	s.setStock(1, 1, 10)
	s.setStock(1, 2, 2)
	uc := newUseCase(s)

	_, err := uc.RegisterBulk(context.Background(), movements.Actor{}, []dto.MovementRequest{
		{Type: "egreso", MaterialID: 1, Quantity: 4, MunicipalityID: 1},
		{Type: "egreso", MaterialID: 2, Quantity: 3, MunicipalityID: 1}, // insuficiente
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// el primer ítem tampoco debe quedar aplicado
	assert.Equal(t, int64(10), s.stockOf(1, 1))
	assert.Equal(t, int64(2), s.stockOf(1, 2))
	assert.Empty(t, s.movements)
}

func TestRegisterBulk_CompartenBatchID(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMaterial(2, "MAT-002", "Jeringas 5ml", 0)
	s.addMunicipality(1, "Sololá")
	uc := newUseCase(s)

	movs, err := uc.RegisterBulk(context.Background(), movements.Actor{}, []dto.MovementRequest{
		{Type: "ingreso", MaterialID: 1, Quantity: 4, MunicipalityID: 1},
		{Type: "ingreso", MaterialID: 2, Quantity: 6, MunicipalityID: 1},
	})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.NotEmpty(t, movs[0].BatchID)
	assert.Equal(t, movs[0].BatchID, movs[1].BatchID)
	assert.Len(t, s.movements, 2)
}

func TestRegisterBulk_ValidaTodoAntesDeAplicar(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMunicipality(1, "Sololá")
	uc := newUseCase(s)

	_, err := uc.RegisterBulk(context.Background(), movements.Actor{}, []dto.MovementRequest{
		{Type: "ingreso", MaterialID: 1, Quantity: 4, MunicipalityID: 1},
		{Type: "ingreso", MaterialID: 99, Quantity: 1, MunicipalityID: 1},
	})
	assert.ErrorIs(t, err, domain.ErrMaterialNotFound)
	assert.Zero(t, s.txRuns, "un ítem inválido debe impedir abrir la transacción")
	assert.Empty(t, s.movements)
}

func TestRegisterBulk_Vacio(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	_, err := uc.RegisterBulk(context.Background(), movements.Actor{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reintentos por contención
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_ReintentaContencion(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMunicipality(1, "Sololá")
	s.busyLeft = 2 // dos transacciones chocan con locks antes de la buena
	uc := newUseCase(s)

	mov, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "ingreso", MaterialID: 1, Quantity: 5, MunicipalityID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, s.txRuns)
	assert.Equal(t, int64(5), s.stockOf(1, 1))
	assert.Len(t, s.movements, 1)
	assert.NotNil(t, mov)
}

func TestRegister_ContencionPersistenteDevuelveServiceBusy(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMunicipality(1, "Sololá")
	s.busyLeft = 100
	uc := newUseCase(s)

	_, err := uc.Register(context.Background(), movements.Actor{}, dto.MovementRequest{
		Type: "ingreso", MaterialID: 1, Quantity: 5, MunicipalityID: 1,
	})
	assert.ErrorIs(t, err, domain.ErrServiceBusy)
	assert.Equal(t, 5, s.txRuns, "se agotan exactamente los intentos configurados")
	assert.Empty(t, s.movements)
}

func TestRegisterBulk_RetryReaplicaElLoteCompleto(t *testing.T) {
	s := newStore()
	s.addMaterial(1, "MAT-001", "Guantes de látex", 0)
	s.addMunicipality(1, "Sololá")
	s.busyLeft = 1
	uc := newUseCase(s)

	movs, err := uc.RegisterBulk(context.Background(), movements.Actor{}, []dto.MovementRequest{
		{Type: "ingreso", MaterialID: 1, Quantity: 4, MunicipalityID: 1},
		{Type: "ingreso", MaterialID: 1, Quantity: 6, MunicipalityID: 1},
	})
	require.NoError(t, err)
	require.Len(t, movs, 2, "el reintento no debe duplicar resultados")
	assert.Equal(t, int64(10), s.stockOf(1, 1))
	assert.Len(t, s.movements, 2)
}
