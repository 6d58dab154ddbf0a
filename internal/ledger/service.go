// Package ledger implements the purchase order ledger: order headers,
// their line items and payments, and the shared inventory those line
// items move. Every mutation runs in one transaction.
package ledger

import (
	"context"
	"log/slog"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"vitaleco/m/domain"
	"vitaleco/m/internal/database"
)

// OrderInput carries caller-settable purchase order fields. ID is only
// honoured by CreateOrder.
type OrderInput struct {
	ID          *int64      `json:"id,omitempty" validate:"omitempty,gt=0"`
	Date        domain.Date `json:"date"`
	Supplier    string      `json:"supplier" validate:"required,max=200"`
	TotalAmount float64     `json:"total_amount" validate:"gte=0"`
}

type ItemInput struct {
	Product  string   `json:"product" validate:"required,max=200"`
	Quantity int64    `json:"quantity" validate:"gt=0"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
}

type PaymentInput struct {
	Amount float64              `json:"amount" validate:"gt=0"`
	Method domain.PaymentMethod `json:"method" validate:"required,oneof=check cash"`
}

// Service exposes ledger operations.
type Service struct {
	db       *sqlx.DB
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService builds a Service.
func NewService(db *sqlx.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, logger: logger, validate: NewValidator()}
}

func (s *Service) read() repository {
	return repository{q: s.db}
}

func (s *Service) withTx(ctx context.Context, fn func(repository) error) error {
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(repository{q: tx})
	})
}

func (s *Service) validateOrder(in OrderInput) error {
	if err := ValidateStruct(s.validate, in); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return invalid("date is required")
	}
	return nil
}

// exceeds compares amounts in cents.
func exceeds(paid, total float64) bool {
	return math.Round(paid*100) > math.Round(total*100)
}
