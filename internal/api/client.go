// Package api is the typed HTTP client the terminal client uses to reach the
// transactions REST API. It maps wire error bodies back onto the domain error
// taxonomy so callers handle server-side and transport failures uniformly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/transaction"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// TransactionParams carries the form fields sent on create and update. The
// amount is signed; Category and Type may be left blank for the server
// defaults.
type TransactionParams struct {
	Description string
	Amount      float64
	Category    string
	Date        time.Time
	Type        transaction.Type
}

type transactionBody struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
	Date        string  `json:"date"`
	Type        string  `json:"type,omitempty"`
}

func (p TransactionParams) body(id string) transactionBody {
	return transactionBody{
		ID:          id,
		Description: p.Description,
		Amount:      p.Amount,
		Category:    p.Category,
		Date:        p.Date.Format(time.DateOnly),
		Type:        string(p.Type),
	}
}

// transactionWire mirrors the server's response shape. uuid and time types
// unmarshal from their string forms directly.
type transactionWire struct {
	ID          uuid.UUID        `json:"id"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	Category    string           `json:"category"`
	Date        time.Time        `json:"date"`
	Type        transaction.Type `json:"type"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   *time.Time       `json:"updatedAt"`
}

func (w transactionWire) toDomain() *transaction.Transaction {
	return &transaction.Transaction{
		ID:          w.ID,
		Description: w.Description,
		Amount:      w.Amount,
		Category:    w.Category,
		Date:        w.Date,
		Type:        w.Type,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func (c *Client) List(ctx context.Context) ([]*transaction.Transaction, error) {
	var wire []transactionWire
	if err := c.do(ctx, http.MethodGet, nil, &wire); err != nil {
		return nil, err
	}

	txs := make([]*transaction.Transaction, len(wire))
	for i, w := range wire {
		txs[i] = w.toDomain()
	}

	return txs, nil
}

func (c *Client) Create(ctx context.Context, params TransactionParams) (*transaction.Transaction, error) {
	var wire transactionWire
	if err := c.do(ctx, http.MethodPost, params.body(""), &wire); err != nil {
		return nil, err
	}

	return wire.toDomain(), nil
}

func (c *Client) Update(ctx context.Context, id uuid.UUID, params TransactionParams) (*transaction.Transaction, error) {
	var wire transactionWire
	if err := c.do(ctx, http.MethodPut, params.body(id.String()), &wire); err != nil {
		return nil, err
	}

	return wire.toDomain(), nil
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	body := struct {
		ID string `json:"id"`
	}{ID: id.String()}

	return c.do(ctx, http.MethodDelete, body, nil)
}

func (c *Client) do(ctx context.Context, method string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = new(bytes.Buffer)
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	url := c.baseURL + "/api/transactions"

	var req *http.Request

	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}

	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// decodeError turns an {error} body back into the domain taxonomy: 400 becomes
// a ValidationError with the server's message, 404 becomes ErrNotFound, and
// anything else surfaces as a generic server failure.
func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}

	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		msg = body.Error
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return &transaction.ValidationError{Message: msg}
	case http.StatusNotFound:
		return transaction.ErrNotFound
	default:
		return fmt.Errorf("server error: %s", msg)
	}
}
