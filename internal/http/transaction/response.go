package transaction

import (
	"time"

	"github.com/google/uuid"

	"fintrack/internal/transaction"
)

type transactionResponse struct {
	ID          uuid.UUID        `json:"id"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	Category    string           `json:"category"`
	Date        time.Time        `json:"date"`
	Type        transaction.Type `json:"type"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Date:        tx.Date,
		Type:        tx.Type,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
