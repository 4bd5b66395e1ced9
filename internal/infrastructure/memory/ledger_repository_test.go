package memory_test

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resortes-api/internal/domain"
	"github.com/jhoicas/resortes-api/internal/domain/entity"
	"github.com/jhoicas/resortes-api/internal/domain/inventory"
	"github.com/jhoicas/resortes-api/internal/domain/repository"
	"github.com/jhoicas/resortes-api/internal/infrastructure/memory"
)

var consumeMeta = entity.MovementMeta{Initials: "PV", OrderRef: "005-26R01"}

func TestLedger_PrimerMovimientoCreaSaldo(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()

	_, ok, err := repo.GetBalance(ctx, "LSR-1")
	require.NoError(t, err)
	assert.False(t, ok)

	adj, err := repo.Adjust(ctx, "LSR-1", 10, entity.MovementReceive, entity.MovementMeta{Note: "stock inicial"})
	require.NoError(t, err)
	assert.Equal(t, 0, adj.Before)
	assert.Equal(t, 10, adj.After)
	assert.Equal(t, int64(1), adj.Movement.Sequence)
	assert.Equal(t, 10, adj.Movement.Quantity)
	assert.Equal(t, "stock inicial", adj.Movement.Note)
	assert.NotEmpty(t, adj.Movement.ID)

	b, ok, err := repo.GetBalance(ctx, "LSR-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, b.QtyOnHand)
}

func TestLedger_MetadatosSegunTipo(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()
	meta := entity.MovementMeta{Initials: "PV", OrderRef: "005-26R01", Note: "ignorada"}

	in, err := repo.Adjust(ctx, "A", 2, entity.MovementReceive, meta)
	require.NoError(t, err)
	assert.Empty(t, in.Movement.Initials)
	assert.Empty(t, in.Movement.OrderRef)

	out, err := repo.Adjust(ctx, "A", -1, entity.MovementConsume, meta)
	require.NoError(t, err)
	assert.Equal(t, "PV", out.Movement.Initials)
	assert.Equal(t, "005-26R01", out.Movement.OrderRef)
	assert.Empty(t, out.Movement.Note)
}

func TestLedger_Conservacion(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()
	rng := rand.New(rand.NewSource(42))

	received, consumed := 0, 0
	for i := 0; i < 200; i++ {
		q := rng.Intn(5) + 1
		if rng.Intn(2) == 0 {
			_, err := repo.Adjust(ctx, "LSR-1", q, entity.MovementReceive, entity.MovementMeta{})
			require.NoError(t, err)
			received += q
		} else {
			_, err := repo.Adjust(ctx, "LSR-1", -q, entity.MovementConsume, consumeMeta)
			if err != nil {
				require.ErrorIs(t, err, domain.ErrInsufficientStock)
			} else {
				consumed += q
			}
		}
		b, _, _ := repo.GetBalance(ctx, "LSR-1")
		require.GreaterOrEqual(t, b.QtyOnHand, 0)
		require.Equal(t, received-consumed, b.QtyOnHand)
	}
}

func TestLedger_RechazoSinEfecto(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()
	_, err := repo.Adjust(ctx, "LSR-1", 6, entity.MovementReceive, entity.MovementMeta{})
	require.NoError(t, err)

	adj, err := repo.Adjust(ctx, "LSR-1", -10, entity.MovementConsume, consumeMeta)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 6, ise.OnHand)
	assert.Equal(t, 6, adj.After)

	b, _, _ := repo.GetBalance(ctx, "LSR-1")
	assert.Equal(t, 6, b.QtyOnHand)
	movs, err := repo.ListMovements(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movs, 1, "el rechazo no agrega movimiento")
}

func TestLedger_ConsumoSobreParteInexistenteNoCreaFila(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()

	_, err := repo.Adjust(ctx, "NUEVO", -1, entity.MovementConsume, consumeMeta)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, ok, _ := repo.GetBalance(ctx, "NUEVO")
	assert.False(t, ok)
}

func TestLedger_IngresoQueDesbordaEsValidacion(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()
	_, err := repo.Adjust(ctx, "P", inventory.MaxQuantity, entity.MovementReceive, entity.MovementMeta{})
	require.NoError(t, err)

	adj, err := repo.Adjust(ctx, "P", 1, entity.MovementReceive, entity.MovementMeta{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, inventory.MaxQuantity, adj.After)

	b, _, _ := repo.GetBalance(ctx, "P")
	assert.Equal(t, inventory.MaxQuantity, b.QtyOnHand)
	movs, err := repo.ListMovements(ctx, repository.MovementFilter{PartID: "P"})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestLedger_DeltaConSignoEquivocado(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()

	_, err := repo.Adjust(ctx, "A", -3, entity.MovementReceive, entity.MovementMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = repo.Adjust(ctx, "A", 0, entity.MovementConsume, consumeMeta)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// N consumos concurrentes cuya suma supera el saldo: solo confirman los que caben,
// el saldo final coincide con los confirmados y nunca es negativo.
func TestLedger_ConsumosConcurrentes(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()
	const initial = 50
	_, err := repo.Adjust(ctx, "LSR-1", initial, entity.MovementReceive, entity.MovementMeta{})
	require.NoError(t, err)

	const workers = 40
	quantities := make([]int, workers)
	for i := range quantities {
		quantities[i] = i%3 + 1 // suma total = 79 > 50
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		committed int
		rejected  int
	)
	for _, q := range quantities {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			_, err := repo.Adjust(ctx, "LSR-1", -q, entity.MovementConsume, consumeMeta)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				rejected++
				return
			}
			committed += q
		}(q)
	}
	wg.Wait()

	b, _, _ := repo.GetBalance(ctx, "LSR-1")
	assert.Equal(t, initial-committed, b.QtyOnHand)
	assert.GreaterOrEqual(t, b.QtyOnHand, 0)
	assert.LessOrEqual(t, committed, initial)
	assert.Positive(t, rejected)
	// Con cantidades de 1..3, si queda algún rechazo el saldo restante es menor a 3.
	assert.Less(t, b.QtyOnHand, 3)

	movs, err := repo.ListMovements(ctx, repository.MovementFilter{Limit: 1000})
	require.NoError(t, err)
	replayed, err := inventory.Replay(reverse(movs))
	require.NoError(t, err, "ningún estado intermedio del log puede ser negativo")
	assert.Equal(t, b.QtyOnHand, replayed["LSR-1"])
}

// Cada ajuste devuelve before/after consistentes con el orden de secuencia por parte.
func TestLedger_OrdenTotalPorParte(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()

	var wg sync.WaitGroup
	results := make(chan entity.Adjustment, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			part := "A"
			if i%2 == 1 {
				part = "B"
			}
			adj, err := repo.Adjust(ctx, part, 1, entity.MovementReceive, entity.MovementMeta{})
			assert.NoError(t, err)
			results <- adj
		}(i)
	}
	wg.Wait()
	close(results)

	bySeq := map[string]map[int64]entity.Adjustment{"A": {}, "B": {}}
	for adj := range results {
		bySeq[adj.Movement.PartID][adj.Movement.Sequence] = adj
	}
	for part, adjs := range bySeq {
		assert.Len(t, adjs, 50, part)
		prevAfter := 0
		for _, seq := range sortedKeys(adjs) {
			adj := adjs[seq]
			assert.Equal(t, prevAfter, adj.Before, "parte %s secuencia %d", part, seq)
			prevAfter = adj.After
		}
		assert.Equal(t, 50, prevAfter)
	}
}

func TestLedger_ListarSaldosYMovimientos(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()
	for _, p := range []string{"C", "A", "B"} {
		_, err := repo.Adjust(ctx, p, 1, entity.MovementReceive, entity.MovementMeta{})
		require.NoError(t, err)
	}
	_, err := repo.Adjust(ctx, "A", -1, entity.MovementConsume, consumeMeta)
	require.NoError(t, err)

	balances, err := repo.ListBalances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 3)
	assert.Equal(t, "A", balances[0].PartID)
	assert.Equal(t, 0, balances[0].QtyOnHand)
	assert.Equal(t, "C", balances[2].PartID)

	movs, err := repo.ListMovements(ctx, repository.MovementFilter{PartID: "A"})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementConsume, movs[0].Kind, "más reciente primero")

	movs, err = repo.ListMovements(ctx, repository.MovementFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, movs, 2)
}

func TestLedger_Reconcile(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()
	_, err := repo.Adjust(ctx, "A", 5, entity.MovementReceive, entity.MovementMeta{})
	require.NoError(t, err)
	_, err = repo.Adjust(ctx, "B", 2, entity.MovementReceive, entity.MovementMeta{})
	require.NoError(t, err)

	drift, err := repo.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, drift)

	repo.CorruptBalance("A", 99)

	drift, err = repo.Reconcile(ctx, false)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, entity.BalanceDrift{PartID: "A", Stored: 99, Replayed: 5}, drift[0])
	b, _, _ := repo.GetBalance(ctx, "A")
	assert.Equal(t, 99, b.QtyOnHand, "sin apply no se modifica nada")

	_, err = repo.Reconcile(ctx, true)
	require.NoError(t, err)
	b, _, _ = repo.GetBalance(ctx, "A")
	assert.Equal(t, 5, b.QtyOnHand)

	drift, err = repo.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func reverse(movs []entity.Movement) []entity.Movement {
	out := make([]entity.Movement, len(movs))
	for i, m := range movs {
		out[len(movs)-1-i] = m
	}
	return out
}

func sortedKeys(m map[int64]entity.Adjustment) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
