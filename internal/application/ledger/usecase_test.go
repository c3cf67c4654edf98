package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// --- dobles en memoria -------------------------------------------------------

type fakeMovementRepo struct {
	movements []*entity.Movement
	createErr error
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListAll() ([]*entity.Movement, error) {
	out := make([]*entity.Movement, len(r.movements))
	copy(out, r.movements)
	sortReplay(out)
	return out, nil
}

func (r *fakeMovementRepo) ListBySKU(sku string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.movements {
		for _, it := range m.Items {
			if it.SKU == sku {
				out = append(out, m)
				break
			}
		}
	}
	sortReplay(out)
	return out, nil
}

func (r *fakeMovementRepo) List(limit, offset int) ([]*entity.Movement, error) {
	all, _ := r.ListAll()
	// inverso: más reciente primero
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeMovementRepo) ExistsForSKU(sku string) (bool, error) {
	list, _ := r.ListBySKU(sku)
	return len(list) > 0, nil
}

func (r *fakeMovementRepo) Delete(id string) error {
	for i, m := range r.movements {
		if m.ID == id {
			r.movements = append(r.movements[:i], r.movements[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func sortReplay(ms []*entity.Movement) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].CreatedAt.Equal(ms[j].CreatedAt) {
			return ms[i].ID < ms[j].ID
		}
		return ms[i].CreatedAt.Before(ms[j].CreatedAt)
	})
}

type fakeStockRepo struct {
	stock    map[string]decimal.Decimal
	failSKUs map[string]bool
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stock: make(map[string]decimal.Decimal), failSKUs: make(map[string]bool)}
}

func (r *fakeStockRepo) Get(sku string) (*entity.StockEntry, error) {
	qty, ok := r.stock[sku]
	if !ok {
		return nil, nil
	}
	return &entity.StockEntry{SKU: sku, Quantity: qty}, nil
}

func (r *fakeStockRepo) GetMap() (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(r.stock))
	for k, v := range r.stock {
		out[k] = v
	}
	return out, nil
}

func (r *fakeStockRepo) IncrementQuantity(sku string, delta decimal.Decimal) (decimal.Decimal, error) {
	if r.failSKUs[sku] {
		return decimal.Zero, fmt.Errorf("fallo simulado en %s", sku)
	}
	r.stock[sku] = r.stock[sku].Add(delta)
	return r.stock[sku], nil
}

func (r *fakeStockRepo) SetQuantity(sku string, quantity decimal.Decimal) error {
	if r.failSKUs[sku] {
		return fmt.Errorf("fallo simulado en %s", sku)
	}
	r.stock[sku] = quantity
	return nil
}

func (r *fakeStockRepo) Delete(sku string) error {
	delete(r.stock, sku)
	return nil
}

type fakeNotificationRepo struct {
	created []*entity.Notification
}

func (r *fakeNotificationRepo) Create(n *entity.Notification) error {
	r.created = append(r.created, n)
	return nil
}
func (r *fakeNotificationRepo) ListByUser(string) ([]*entity.Notification, error) { return nil, nil }
func (r *fakeNotificationRepo) MarkRead(string, string) error                     { return nil }
func (r *fakeNotificationRepo) MarkAllRead(string) error                          { return nil }
func (r *fakeNotificationRepo) DeleteOlderThan(string, time.Time) error           { return nil }

// --- helpers -----------------------------------------------------------------

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func decPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func newTestUseCase() (*LedgerUseCase, *fakeMovementRepo, *fakeStockRepo, *fakeNotificationRepo) {
	movRepo := &fakeMovementRepo{}
	stockRepo := newFakeStockRepo()
	notifRepo := &fakeNotificationRepo{}
	return NewLedgerUseCase(movRepo, stockRepo, notifRepo, nil), movRepo, stockRepo, notifRepo
}

func entrada(sku string, qty int64) dto.RegisterMovementRequest {
	return dto.RegisterMovementRequest{
		Kind:  entity.MovementKindEntrada,
		Items: []dto.MovementItemDTO{{SKU: sku, Quantity: dec(qty)}},
	}
}

func salida(sku string, qty int64) dto.RegisterMovementRequest {
	return dto.RegisterMovementRequest{
		Kind:  entity.MovementKindSalida,
		Items: []dto.MovementItemDTO{{SKU: sku, Quantity: dec(qty)}},
	}
}

// --- Register ----------------------------------------------------------------

func TestRegister_EntradaSumaYNotifica(t *testing.T) {
	uc, movRepo, stockRepo, notifRepo := newTestUseCase()

	resp, err := uc.Register(context.Background(), "user-1", entrada("CAJA-60", 10))
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(10)))
	assert.Len(t, movRepo.movements, 1)
	assert.Len(t, notifRepo.created, 1)
	assert.Equal(t, "user-1", movRepo.movements[0].CreatedBy)
}

func TestRegister_SalidaPuedeDejarStockNegativo(t *testing.T) {
	uc, _, stockRepo, _ := newTestUseCase()

	_, err := uc.Register(context.Background(), "user-1", salida("CAJA-60", 5))
	require.NoError(t, err)

	// El negativo se permite: señala discrepancia real en el almacén.
	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(-5)))
}

func TestRegister_SKUDuplicadoNoPersisteNada(t *testing.T) {
	uc, movRepo, stockRepo, _ := newTestUseCase()

	_, err := uc.Register(context.Background(), "user-1", dto.RegisterMovementRequest{
		Kind: entity.MovementKindEntrada,
		Items: []dto.MovementItemDTO{
			{SKU: "CAJA-60", Quantity: dec(10)},
			{SKU: "CAJA-60", Quantity: dec(5)},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, movRepo.movements)
	assert.Empty(t, stockRepo.stock)
}

func TestRegister_CantidadNoEnteraRechazada(t *testing.T) {
	uc, movRepo, _, _ := newTestUseCase()

	_, err := uc.Register(context.Background(), "user-1", dto.RegisterMovementRequest{
		Kind:  entity.MovementKindEntrada,
		Items: []dto.MovementItemDTO{{SKU: "CAJA-60", Quantity: decimal.NewFromFloat(2.5)}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, movRepo.movements)
}

func TestRegister_TipoDesconocidoRechazado(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	_, err := uc.Register(context.Background(), "user-1", dto.RegisterMovementRequest{
		Kind:  "Traslado",
		Items: []dto.MovementItemDTO{{SKU: "CAJA-60", Quantity: dec(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_FalloDeProyeccionConservaElAsiento(t *testing.T) {
	uc, movRepo, stockRepo, _ := newTestUseCase()
	stockRepo.failSKUs["PALET-EU"] = true

	_, err := uc.Register(context.Background(), "user-1", dto.RegisterMovementRequest{
		Kind: entity.MovementKindEntrada,
		Items: []dto.MovementItemDTO{
			{SKU: "CAJA-60", Quantity: dec(10)},
			{SKU: "PALET-EU", Quantity: dec(4)},
		},
	})
	require.Error(t, err)

	var partial *domain.PartialApplicationError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, []string{"PALET-EU"}, partial.FailedSKUs)

	// El asiento queda escrito y los ítems sanos aplicados.
	require.Len(t, movRepo.movements, 1)
	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(10)))

	// La reparación designada: reconstruir desde el historial.
	stockRepo.failSKUs = map[string]bool{}
	rebuilt, err := uc.RebuildStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rebuilt.Repaired)
	assert.True(t, stockRepo.stock["PALET-EU"].Equal(dec(4)))
}

// --- ManualCount -------------------------------------------------------------

func TestManualCount_SinDiferenciasEsNoOp(t *testing.T) {
	uc, movRepo, stockRepo, _ := newTestUseCase()
	stockRepo.stock["CAJA-60"] = dec(70)

	resp, err := uc.ManualCount(context.Background(), "user-1", dto.ManualCountRequest{
		Counts: map[string]decimal.Decimal{"CAJA-60": dec(70)},
	})
	require.NoError(t, err)
	assert.True(t, resp.NoOp)
	assert.Empty(t, movRepo.movements)
	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(70)))
}

func TestManualCount_EscribeUnSoloAjusteConLosCambios(t *testing.T) {
	uc, movRepo, stockRepo, _ := newTestUseCase()
	stockRepo.stock["CAJA-60"] = dec(70)
	stockRepo.stock["PALET-EU"] = dec(12)

	resp, err := uc.ManualCount(context.Background(), "user-1", dto.ManualCountRequest{
		Counts: map[string]decimal.Decimal{
			"CAJA-60":  dec(65), // difiere
			"PALET-EU": dec(12), // coincide, se descarta
		},
		Reason: "recuento de fin de mes",
	})
	require.NoError(t, err)
	assert.False(t, resp.NoOp)
	assert.Equal(t, 1, resp.Changed)

	require.Len(t, movRepo.movements, 1)
	m := movRepo.movements[0]
	assert.Equal(t, entity.MovementKindAjuste, m.Kind)
	require.Len(t, m.Items, 1)
	assert.Equal(t, "CAJA-60", m.Items[0].SKU)
	assert.True(t, m.Items[0].PriorQuantity.Equal(dec(70)))
	assert.True(t, m.Items[0].NewQuantity.Equal(dec(65)))
	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(65)))
}

func TestManualCount_SKUNuncaVistoParteDeCero(t *testing.T) {
	uc, movRepo, stockRepo, _ := newTestUseCase()

	resp, err := uc.ManualCount(context.Background(), "user-1", dto.ManualCountRequest{
		Counts: map[string]decimal.Decimal{"FLEJE-9": dec(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Changed)
	require.Len(t, movRepo.movements, 1)
	assert.True(t, movRepo.movements[0].Items[0].PriorQuantity.Equal(decimal.Zero))
	assert.True(t, stockRepo.stock["FLEJE-9"].Equal(dec(3)))
}

// --- Reverse -----------------------------------------------------------------

func TestReverse_MovimientoInexistente(t *testing.T) {
	uc, _, _, _ := newTestUseCase()
	err := uc.Reverse(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReverse_EntradaSinAbsolutoPosteriorCompensa(t *testing.T) {
	uc, movRepo, stockRepo, _ := newTestUseCase()

	_, err := uc.Register(context.Background(), "user-1", entrada("CAJA-60", 50))
	require.NoError(t, err)
	_, err = uc.Register(context.Background(), "user-1", entrada("CAJA-60", 30))
	require.NoError(t, err)

	first := movRepo.movements[0].ID
	require.NoError(t, uc.Reverse(context.Background(), first))

	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(30)))
	assert.Len(t, movRepo.movements, 1)
}

func TestReverse_SalidaSinAbsolutoPosteriorCompensa(t *testing.T) {
	uc, movRepo, stockRepo, _ := newTestUseCase()

	_, err := uc.Register(context.Background(), "user-1", entrada("CAJA-60", 50))
	require.NoError(t, err)
	_, err = uc.Register(context.Background(), "user-1", salida("CAJA-60", 20))
	require.NoError(t, err)
	require.True(t, stockRepo.stock["CAJA-60"].Equal(dec(30)))

	require.NoError(t, uc.Reverse(context.Background(), movRepo.movements[1].ID))
	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(50)))
}

func TestReverse_AjusteSiempreHaceReplay(t *testing.T) {
	uc, movRepo, stockRepo, _ := newTestUseCase()

	_, err := uc.Register(context.Background(), "user-1", entrada("CAJA-60", 50))
	require.NoError(t, err)

	_, err = uc.ManualCount(context.Background(), "user-1", dto.ManualCountRequest{
		Counts: map[string]decimal.Decimal{"CAJA-60": dec(40)},
	})
	require.NoError(t, err)
	require.True(t, stockRepo.stock["CAJA-60"].Equal(dec(40)))

	// Al anular el ajuste, el fold del historial restante manda: vuelve a 50.
	require.NoError(t, uc.Reverse(context.Background(), movRepo.movements[1].ID))
	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(50)))
	assert.Len(t, movRepo.movements, 1)
}

// Anular una Salida anterior a un ajuste no puede compensar aditivamente: el
// ajuste ya fijó el valor observado y sumar de vuelta las 30 unidades
// inventaría stock que el recuento no vio.
func TestReverse_SalidaAnteriorAUnAjusteHaceReplay(t *testing.T) {
	uc, movRepo, stockRepo, _ := newTestUseCase()

	// Alta con 100, salida de 30, recuento físico que observa 65.
	_, err := uc.Register(context.Background(), "user-1", dto.RegisterMovementRequest{
		Kind:  entity.MovementKindRecuentoManual,
		Items: []dto.MovementItemDTO{{SKU: "CAJA-60", Quantity: dec(100), PriorQuantity: decPtr(0), NewQuantity: decPtr(100)}},
	})
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), "user-1", salida("CAJA-60", 30))
	require.NoError(t, err)
	salidaID := movRepo.movements[1].ID

	// Recuento idéntico a la proyección: no deja rastro.
	noop, err := uc.ManualCount(context.Background(), "user-1", dto.ManualCountRequest{
		Counts: map[string]decimal.Decimal{"CAJA-60": dec(70)},
	})
	require.NoError(t, err)
	require.True(t, noop.NoOp)

	// Recuento que observa 65: ajuste 70 -> 65.
	adj, err := uc.ManualCount(context.Background(), "user-1", dto.ManualCountRequest{
		Counts: map[string]decimal.Decimal{"CAJA-60": dec(65)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, adj.Changed)

	require.NoError(t, uc.Reverse(context.Background(), salidaID))

	// 65, no 95: el recuento posterior es la última palabra sobre el valor.
	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(65)),
		"esperaba 65, obtuve %s", stockRepo.stock["CAJA-60"])
	assert.Len(t, movRepo.movements, 2)
}

func TestReverse_EliminacionSoloBorraElAsiento(t *testing.T) {
	uc, movRepo, stockRepo, _ := newTestUseCase()
	stockRepo.stock["CAJA-60"] = dec(40)

	_, err := uc.Register(context.Background(), "user-1", dto.RegisterMovementRequest{
		Kind:  entity.MovementKindEliminacion,
		Items: []dto.MovementItemDTO{{SKU: "CAJA-60", Quantity: dec(40)}},
	})
	require.NoError(t, err)
	require.True(t, stockRepo.stock["CAJA-60"].Equal(dec(40)), "la eliminación no toca stock")

	require.NoError(t, uc.Reverse(context.Background(), movRepo.movements[0].ID))
	assert.Empty(t, movRepo.movements)
	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(40)))
}

// --- RebuildStock / GetStock / History ---------------------------------------

func TestRebuildStock_SoloReescribeDivergentes(t *testing.T) {
	uc, _, stockRepo, _ := newTestUseCase()

	_, err := uc.Register(context.Background(), "user-1", entrada("CAJA-60", 10))
	require.NoError(t, err)
	_, err = uc.Register(context.Background(), "user-1", entrada("PALET-EU", 4))
	require.NoError(t, err)

	// Se corrompe un SKU a mano.
	stockRepo.stock["CAJA-60"] = dec(999)

	resp, err := uc.RebuildStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SKUs)
	assert.Equal(t, 1, resp.Repaired)
	assert.True(t, stockRepo.stock["CAJA-60"].Equal(dec(10)))
}

func TestHistory_MasRecientePrimero(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	_, err := uc.Register(context.Background(), "user-1", entrada("CAJA-60", 1))
	require.NoError(t, err)
	_, err = uc.Register(context.Background(), "user-1", entrada("CAJA-60", 2))
	require.NoError(t, err)

	resp, err := uc.History(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].Items[0].Quantity.Equal(dec(2)))
	assert.True(t, resp.Items[1].Items[0].Quantity.Equal(dec(1)))
}
