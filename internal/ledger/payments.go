package ledger

import (
	"context"
	"log/slog"

	"vitaleco/m/domain"
)

// ListPayments returns the payments of an existing order.
func (s *Service) ListPayments(ctx context.Context, orderID int64) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := s.withTx(ctx, func(r repository) error {
		if _, err := r.getOrder(ctx, orderID); err != nil {
			return err
		}
		var err error
		payments, err = r.listPayments(ctx, orderID)
		return err
	})
	return payments, err
}

// GetPayment returns one payment of an order.
func (s *Service) GetPayment(ctx context.Context, orderID, paymentID int64) (domain.Payment, error) {
	return s.read().getPayment(ctx, orderID, paymentID)
}

// AddPayment records a payment unless it would take the paid amount past
// the order total.
func (s *Service) AddPayment(ctx context.Context, orderID int64, in PaymentInput) (domain.Payment, error) {
	if err := ValidateStruct(s.validate, in); err != nil {
		return domain.Payment{}, err
	}

	var payment domain.Payment
	err := s.withTx(ctx, func(r repository) error {
		po, err := r.getOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if prospective := po.PaidAmount + in.Amount; exceeds(prospective, po.TotalAmount) {
			return exceedsTotal(prospective, po.TotalAmount)
		}
		id, err := r.insertPayment(ctx, orderID, in)
		if err != nil {
			return err
		}
		if _, err := recompute(ctx, r, orderID); err != nil {
			return err
		}
		payment, err = r.getPayment(ctx, orderID, id)
		return err
	})
	if err != nil {
		return domain.Payment{}, err
	}
	s.logger.Info("payment recorded", slog.Int64("order_id", orderID), slog.Float64("amount", payment.Amount))
	return payment, nil
}

// UpdatePayment applies the change and recomputes the paid amount. If the
// new sum exceeds the total, the row change and recomputation are both
// rolled back.
func (s *Service) UpdatePayment(ctx context.Context, orderID, paymentID int64, in PaymentInput) (domain.Payment, error) {
	if err := ValidateStruct(s.validate, in); err != nil {
		return domain.Payment{}, err
	}

	var payment domain.Payment
	err := s.withTx(ctx, func(r repository) error {
		po, err := r.getOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if _, err := r.getPayment(ctx, orderID, paymentID); err != nil {
			return err
		}
		if err := r.updatePayment(ctx, orderID, paymentID, in); err != nil {
			return err
		}
		paid, err := recompute(ctx, r, orderID)
		if err != nil {
			return err
		}
		if exceeds(paid, po.TotalAmount) {
			return exceedsTotal(paid, po.TotalAmount)
		}
		payment, err = r.getPayment(ctx, orderID, paymentID)
		return err
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

// DeletePayment removes a payment and recomputes the paid amount.
func (s *Service) DeletePayment(ctx context.Context, orderID, paymentID int64) error {
	return s.withTx(ctx, func(r repository) error {
		if _, err := r.getPayment(ctx, orderID, paymentID); err != nil {
			return err
		}
		if err := r.deletePayment(ctx, orderID, paymentID); err != nil {
			return err
		}
		_, err := recompute(ctx, r, orderID)
		return err
	})
}

// Recompute sets the order's paid amount to the sum of its payments and
// returns it. No payments yields zero.
func (s *Service) Recompute(ctx context.Context, orderID int64) (float64, error) {
	var paid float64
	err := s.withTx(ctx, func(r repository) error {
		if _, err := r.getOrder(ctx, orderID); err != nil {
			return err
		}
		var err error
		paid, err = recompute(ctx, r, orderID)
		return err
	})
	return paid, err
}

func recompute(ctx context.Context, r repository, orderID int64) (float64, error) {
	paid, err := r.sumPayments(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if err := r.setPaidAmount(ctx, orderID, paid); err != nil {
		return 0, err
	}
	return paid, nil
}
