package transaction

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context) ([]*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and normalizes the params, then inserts a new transaction.
// The repository assigns the ID and CreatedAt.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	params.Normalize()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx := &Transaction{
		Description: params.Description,
		Amount:      params.Amount,
		Category:    params.Category,
		Date:        params.Date,
		Type:        params.Type,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// List returns all transactions ordered most-recent-first: date descending,
// ID descending for same-day entries.
func (s *Service) List(ctx context.Context) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

// Update fully replaces the transaction identified by id. CreatedAt is kept,
// UpdatedAt is refreshed. Returns ErrNotFound when no record matches.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Transaction, error) {
	params.Normalize()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx := &Transaction{
		ID:          id,
		Description: params.Description,
		Amount:      params.Amount,
		Category:    params.Category,
		Date:        params.Date,
		Type:        params.Type,
	}
	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Delete removes the transaction permanently. Returns ErrNotFound when no
// record matches, so a repeated delete of the same ID fails.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}
