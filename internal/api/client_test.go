package api_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/api"
	fintrackHttp "fintrack/internal/http"
	txHandler "fintrack/internal/http/transaction"
	"fintrack/internal/transaction"
)

// memoryRepo is an in-memory Repository so the client can be exercised
// against the real router and handler.
type memoryRepo struct {
	mu  sync.Mutex
	txs map[uuid.UUID]*transaction.Transaction
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{txs: make(map[uuid.UUID]*transaction.Transaction)}
}

func (r *memoryRepo) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx.ID = uuid.New()
	tx.CreatedAt = time.Now().UTC().Truncate(time.Second)

	stored := *tx
	r.txs[tx.ID] = &stored

	return nil
}

func (r *memoryRepo) ListTransactions(_ context.Context) ([]*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*transaction.Transaction, 0, len(r.txs))
	for _, tx := range r.txs {
		copied := *tx
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}

		return bytes.Compare(out[i].ID[:], out[j].ID[:]) > 0
	})

	return out, nil
}

func (r *memoryRepo) UpdateTransaction(_ context.Context, tx *transaction.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.txs[tx.ID]
	if !ok {
		return transaction.ErrNotFound
	}

	now := time.Now().UTC().Truncate(time.Second)
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = &now

	stored := *tx
	r.txs[tx.ID] = &stored

	return nil
}

func (r *memoryRepo) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.txs[id]; !ok {
		return transaction.ErrNotFound
	}

	delete(r.txs, id)

	return nil
}

func newTestClient(t *testing.T) *api.Client {
	t.Helper()

	handler := txHandler.NewHandler(transaction.NewService(newMemoryRepo()))
	server := httptest.NewServer(fintrackHttp.New(handler))
	t.Cleanup(server.Close)

	return api.New(server.URL)
}

// Walks the whole lifecycle end to end: create with defaults applied, list,
// full-replace update with re-derived type, then delete and a 404 afterwards.
func TestClient_Lifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	created, err := client.Create(ctx, api.TransactionParams{
		Description: "Coffee",
		Amount:      -4.50,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, transaction.TypeExpense, created.Type)
	assert.Equal(t, "General", created.Category)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Nil(t, created.UpdatedAt)

	txs, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, created.ID, txs[0].ID)

	updated, err := client.Update(ctx, created.ID, api.TransactionParams{
		Description: "Refund",
		Amount:      100,
		Date:        time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, transaction.TypeIncome, updated.Type)
	assert.Equal(t, "Refund", updated.Description)
	assert.Equal(t, 100.0, updated.Amount)
	assert.NotNil(t, updated.UpdatedAt)

	require.NoError(t, client.Delete(ctx, created.ID))

	txs, err = client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)

	assert.ErrorIs(t, client.Delete(ctx, created.ID), transaction.ErrNotFound)
}

func TestClient_ListOrdering(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), // same-day tie
	}

	for i, d := range dates {
		_, err := client.Create(ctx, api.TransactionParams{
			Description: "Entry",
			Amount:      float64(i + 1),
			Date:        d,
		})
		require.NoError(t, err)
	}

	txs, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, dates[1], txs[0].Date)

	for i := 0; i < len(txs)-1; i++ {
		assert.False(t, txs[i].Date.Before(txs[i+1].Date))

		if txs[i].Date.Equal(txs[i+1].Date) {
			assert.Greater(t, txs[i].ID.String(), txs[i+1].ID.String())
		}
	}
}

func TestClient_ValidationError(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Create(context.Background(), api.TransactionParams{
		Amount: 10,
		Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	var vErr *transaction.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Message)
}

func TestClient_NotFound(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Update(context.Background(), uuid.New(), api.TransactionParams{
		Description: "Ghost",
		Amount:      1,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch transactions"}`))
	}))
	t.Cleanup(server.Close)

	client := api.New(server.URL)

	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to fetch transactions")
}
