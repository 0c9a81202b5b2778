package transaction_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	fintrackHttp "fintrack/internal/http"
	txHandler "fintrack/internal/http/transaction"
	"fintrack/internal/transaction"
)

func newServer(t *testing.T) (*transaction.MockRepository, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := transaction.NewMockRepository(ctrl)
	handler := txHandler.NewHandler(transaction.NewService(repo))

	return repo, fintrackHttp.New(handler)
}

func doJSON(t *testing.T, server http.Handler, method, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, "/api/transactions", strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Error
}

func TestHandler_List(t *testing.T) {
	repo, server := newServer(t)

	now := time.Now().UTC()
	repo.EXPECT().ListTransactions(gomock.Any()).Return([]*transaction.Transaction{
		{ID: uuid.New(), Description: "Salary", Amount: 2500, Category: "Work", Date: now, Type: transaction.TypeIncome, CreatedAt: now},
		{ID: uuid.New(), Description: "Coffee", Amount: -4.5, Category: "General", Date: now, Type: transaction.TypeExpense, CreatedAt: now},
	}, nil)

	rec := doJSON(t, server, http.MethodGet, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Salary", got[0]["description"])
	assert.Equal(t, -4.5, got[1]["amount"])
}

func TestHandler_List_StoreError(t *testing.T) {
	repo, server := newServer(t)

	repo.EXPECT().ListTransactions(gomock.Any()).Return(nil, errors.New("connection refused"))

	rec := doJSON(t, server, http.MethodGet, "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// The raw store error must not leak to the client.
	assert.Equal(t, "Failed to fetch transactions", errorBody(t, rec))
}

func TestHandler_Create(t *testing.T) {
	repo, server := newServer(t)

	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			tx.ID = uuid.New()
			tx.CreatedAt = time.Now().UTC()
			return nil
		})

	rec := doJSON(t, server, http.MethodPost,
		`{"description":"  Coffee  ","amount":-4.5,"date":"2024-03-01"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Coffee", got["description"])
	assert.Equal(t, -4.5, got["amount"])
	assert.Equal(t, "General", got["category"])
	assert.Equal(t, "expense", got["type"])
	assert.NotEmpty(t, got["id"])
	assert.NotEmpty(t, got["createdAt"])
	assert.NotContains(t, got, "updatedAt")
}

func TestHandler_Create_MissingFields(t *testing.T) {
	bodies := map[string]string{
		"NoDescription": `{"amount":-4.5,"date":"2024-03-01"}`,
		"NoAmount":      `{"description":"Coffee","date":"2024-03-01"}`,
		"NoDate":        `{"description":"Coffee","amount":-4.5}`,
		"NullAmount":    `{"description":"Coffee","amount":null,"date":"2024-03-01"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			// No repo expectations: a validation failure must not touch
			// the store.
			_, server := newServer(t)

			rec := doJSON(t, server, http.MethodPost, body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Missing required fields: description, amount, date", errorBody(t, rec))
		})
	}
}

func TestHandler_Create_NonNumericAmount(t *testing.T) {
	_, server := newServer(t)

	rec := doJSON(t, server, http.MethodPost,
		`{"description":"Coffee","amount":"abc","date":"2024-03-01"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, errorBody(t, rec))
}

func TestHandler_Update(t *testing.T) {
	repo, server := newServer(t)
	id := uuid.New()

	repo.EXPECT().
		UpdateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			assert.Equal(t, id, tx.ID)
			now := time.Now().UTC()
			tx.CreatedAt = now.Add(-24 * time.Hour)
			tx.UpdatedAt = &now
			return nil
		})

	rec := doJSON(t, server, http.MethodPut,
		`{"id":"`+id.String()+`","description":"Refund","amount":100,"date":"2024-03-02"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id.String(), got["id"])
	// Type is re-derived from the new amount's sign on full replacement.
	assert.Equal(t, "income", got["type"])
	assert.NotEmpty(t, got["updatedAt"])
}

func TestHandler_Update_IDValidation(t *testing.T) {
	type testCase struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}

	tests := []testCase{
		{
			name:     "MissingID",
			body:     `{"description":"Refund","amount":100,"date":"2024-03-02"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Transaction ID is required",
		},
		{
			name:     "MalformedID",
			body:     `{"id":"not-a-uuid","description":"Refund","amount":100,"date":"2024-03-02"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid transaction ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, server := newServer(t)

			rec := doJSON(t, server, http.MethodPut, tt.body)

			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, errorBody(t, rec))
		})
	}
}

func TestHandler_Update_NotFound(t *testing.T) {
	repo, server := newServer(t)

	repo.EXPECT().
		UpdateTransaction(gomock.Any(), gomock.Any()).
		Return(transaction.ErrNotFound)

	rec := doJSON(t, server, http.MethodPut,
		`{"id":"`+uuid.NewString()+`","description":"Refund","amount":100,"date":"2024-03-02"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transaction not found", errorBody(t, rec))
}

func TestHandler_Delete(t *testing.T) {
	repo, server := newServer(t)
	id := uuid.New()

	// Deleting twice: the first call succeeds, the second hits nothing.
	gomock.InOrder(
		repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return(nil),
		repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return(transaction.ErrNotFound),
	)

	body := `{"id":"` + id.String() + `"}`

	rec := doJSON(t, server, http.MethodDelete, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Transaction deleted successfully", got["message"])

	rec = doJSON(t, server, http.MethodDelete, body)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Delete_IDValidation(t *testing.T) {
	for name, body := range map[string]string{
		"MissingID":   `{}`,
		"MalformedID": `{"id":"12345"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, server := newServer(t)

			rec := doJSON(t, server, http.MethodDelete, body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	_, server := newServer(t)

	rec := doJSON(t, server, http.MethodPatch, `{}`)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST, PUT, DELETE", rec.Header().Get("Allow"))
	assert.Equal(t, "Method PATCH not allowed", errorBody(t, rec))
}
