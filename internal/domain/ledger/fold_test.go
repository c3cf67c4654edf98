package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: constructores de movimientos para el fold
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func mov(id, kind string, minutes int, items ...entity.MovementItem) *entity.Movement {
	return &entity.Movement{
		ID:        id,
		Kind:      kind,
		Items:     items,
		CreatedAt: t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func item(sku string, qty int64) entity.MovementItem {
	return entity.MovementItem{SKU: sku, Quantity: decimal.NewFromInt(qty)}
}

func absItem(sku string, prior, newQty int64) entity.MovementItem {
	p := decimal.NewFromInt(prior)
	n := decimal.NewFromInt(newQty)
	return entity.MovementItem{SKU: sku, Quantity: n.Sub(p).Abs(), PriorQuantity: &p, NewQuantity: &n}
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply: regla de fold por tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_EntradaSuma(t *testing.T) {
	got := ledger.Apply(decimal.NewFromInt(10), entity.MovementKindEntrada, item("A", 5))
	assert.True(t, got.Equal(decimal.NewFromInt(15)))
}

func TestApply_SalidaResta(t *testing.T) {
	got := ledger.Apply(decimal.NewFromInt(10), entity.MovementKindSalida, item("A", 5))
	assert.True(t, got.Equal(decimal.NewFromInt(5)))
}

func TestApply_AjusteFijaValorAbsoluto(t *testing.T) {
	got := ledger.Apply(decimal.NewFromInt(10), entity.MovementKindAjuste, absItem("A", 10, 3))
	assert.True(t, got.Equal(decimal.NewFromInt(3)), "el ajuste fija el valor, no aplica delta")
}

func TestApply_EliminacionSinEfecto(t *testing.T) {
	got := ledger.Apply(decimal.NewFromInt(10), entity.MovementKindEliminacion, item("A", 10))
	assert.True(t, got.Equal(decimal.NewFromInt(10)), "Eliminación documenta, no mueve stock")
}

// La salida puede dejar stock negativo: la regla de fold no lo rechaza,
// es una señal de calidad de datos que se reporta aguas arriba.
func TestApply_SalidaPermiteNegativo(t *testing.T) {
	got := ledger.Apply(decimal.NewFromInt(3), entity.MovementKindSalida, item("A", 5))
	assert.True(t, got.Equal(decimal.NewFromInt(-2)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Rebuild: replay del historial completo
// ──────────────────────────────────────────────────────────────────────────────

// P1: para una secuencia de Entradas/Salidas desde 0, el resultado es la suma
// con el signo del tipo.
func TestRebuild_SumaConSigno(t *testing.T) {
	movs := []*entity.Movement{
		mov("m1", entity.MovementKindEntrada, 0, item("SKU1", 100)),
		mov("m2", entity.MovementKindSalida, 1, item("SKU1", 30)),
		mov("m3", entity.MovementKindEntrada, 2, item("SKU1", 7)),
		mov("m4", entity.MovementKindSalida, 3, item("SKU1", 2)),
	}
	got := ledger.Rebuild(movs)
	require.Contains(t, got, "SKU1")
	assert.True(t, got["SKU1"].Equal(decimal.NewFromInt(75)), "100-30+7-2 = 75")
}

// El valor absoluto de un Ajuste manda sobre todo el historial anterior.
func TestRebuild_AjusteGanaAlHistorial(t *testing.T) {
	movs := []*entity.Movement{
		mov("m1", entity.MovementKindEntrada, 0, item("SKU1", 100)),
		mov("m2", entity.MovementKindAjuste, 1, absItem("SKU1", 100, 40)),
		mov("m3", entity.MovementKindSalida, 2, item("SKU1", 5)),
	}
	got := ledger.Rebuild(movs)
	assert.True(t, got["SKU1"].Equal(decimal.NewFromInt(35)), "40-5 = 35")
}

// El replay ordena por CreatedAt aunque el slice llegue desordenado;
// empates de marca de tiempo se desempatan por ID.
func TestRebuild_OrdenaPorCreatedAtConDesempatePorID(t *testing.T) {
	movs := []*entity.Movement{
		mov("m3", entity.MovementKindSalida, 2, item("SKU1", 5)),
		mov("b", entity.MovementKindAjuste, 1, absItem("SKU1", 0, 40)),
		mov("a", entity.MovementKindEntrada, 1, item("SKU1", 100)),
		mov("m1", entity.MovementKindEntrada, 0, item("SKU1", 10)),
	}
	// Orden efectivo: m1, a, b, m3 -> 10, +100, =40, -5
	got := ledger.Rebuild(movs)
	assert.True(t, got["SKU1"].Equal(decimal.NewFromInt(35)))
}

// Todo SKU referenciado aparece en el resultado, aunque su efecto neto sea cero.
func TestRebuild_IncluyeSKUsSinEfectoNeto(t *testing.T) {
	movs := []*entity.Movement{
		mov("m1", entity.MovementKindEliminacion, 0, item("HUERFANO", 9)),
	}
	got := ledger.Rebuild(movs)
	require.Contains(t, got, "HUERFANO")
	assert.True(t, got["HUERFANO"].IsZero())
}

func TestRebuild_HistorialVacio(t *testing.T) {
	got := ledger.Rebuild(nil)
	assert.Empty(t, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// RebuildSKU: replay restringido (núcleo de la anulación de Ajustes)
// ──────────────────────────────────────────────────────────────────────────────

// P4: Entrada(+50), Ajuste(=30), Salida(-5) da 25; al borrar el Ajuste el
// replay del resto debe dar 50-5 = 45, no 30-5.
func TestRebuildSKU_ReplaySinElAjusteBorrado(t *testing.T) {
	conAjuste := []*entity.Movement{
		mov("m1", entity.MovementKindEntrada, 0, item("SKU1", 50)),
		mov("m2", entity.MovementKindAjuste, 1, absItem("SKU1", 50, 30)),
		mov("m3", entity.MovementKindSalida, 2, item("SKU1", 5)),
	}
	assert.True(t, ledger.RebuildSKU(conAjuste, "SKU1").Equal(decimal.NewFromInt(25)))

	sinAjuste := []*entity.Movement{conAjuste[0], conAjuste[2]}
	assert.True(t, ledger.RebuildSKU(sinAjuste, "SKU1").Equal(decimal.NewFromInt(45)),
		"el replay omite por completo el Ajuste borrado")
}

func TestRebuildSKU_IgnoraOtrosSKUs(t *testing.T) {
	movs := []*entity.Movement{
		mov("m1", entity.MovementKindEntrada, 0, item("A", 10), item("B", 99)),
		mov("m2", entity.MovementKindSalida, 1, item("A", 4)),
	}
	assert.True(t, ledger.RebuildSKU(movs, "A").Equal(decimal.NewFromInt(6)))
	assert.True(t, ledger.RebuildSKU(movs, "B").Equal(decimal.NewFromInt(99)))
	assert.True(t, ledger.RebuildSKU(movs, "C").IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// HasAbsoluteAfter: guarda del atajo aditivo en anulaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestHasAbsoluteAfter_DetectaAjustePosterior(t *testing.T) {
	salida := mov("m2", entity.MovementKindSalida, 1, item("SKU1", 30))
	movs := []*entity.Movement{
		mov("m1", entity.MovementKindEntrada, 0, item("SKU1", 100)),
		salida,
		mov("m3", entity.MovementKindAjuste, 2, absItem("SKU1", 70, 65)),
	}
	assert.True(t, ledger.HasAbsoluteAfter(movs, "SKU1", salida),
		"hay un Ajuste posterior: la compensación aditiva no es válida")
}

func TestHasAbsoluteAfter_AjusteAnteriorNoCuenta(t *testing.T) {
	salida := mov("m3", entity.MovementKindSalida, 2, item("SKU1", 5))
	movs := []*entity.Movement{
		mov("m1", entity.MovementKindAjuste, 0, absItem("SKU1", 0, 40)),
		mov("m2", entity.MovementKindEntrada, 1, item("SKU1", 10)),
		salida,
	}
	assert.False(t, ledger.HasAbsoluteAfter(movs, "SKU1", salida))
}

func TestHasAbsoluteAfter_OtroSKUNoCuenta(t *testing.T) {
	salida := mov("m1", entity.MovementKindSalida, 0, item("SKU1", 5))
	movs := []*entity.Movement{
		salida,
		mov("m2", entity.MovementKindAjuste, 1, absItem("OTRO", 0, 40)),
	}
	assert.False(t, ledger.HasAbsoluteAfter(movs, "SKU1", salida))
}

func TestHasAbsoluteAfter_EmpateDeTimestampUsaID(t *testing.T) {
	salida := mov("b", entity.MovementKindSalida, 1, item("SKU1", 5))
	// "a" < "b": mismo timestamp pero anterior en orden de replay.
	anterior := mov("a", entity.MovementKindAjuste, 1, absItem("SKU1", 0, 40))
	posterior := mov("c", entity.MovementKindAjuste, 1, absItem("SKU1", 0, 40))

	assert.False(t, ledger.HasAbsoluteAfter([]*entity.Movement{anterior, salida}, "SKU1", salida))
	assert.True(t, ledger.HasAbsoluteAfter([]*entity.Movement{salida, posterior}, "SKU1", salida))
}
