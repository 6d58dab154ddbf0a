package ledger

import (
	"context"
	"log/slog"

	"vitaleco/m/domain"
)

// CreateOrder stores a new purchase order. With an explicit ID the header
// is written in place and its paid amount is taken from any payments
// already recorded against that ID.
func (s *Service) CreateOrder(ctx context.Context, in OrderInput) (domain.PurchaseOrder, error) {
	if err := s.validateOrder(in); err != nil {
		return domain.PurchaseOrder{}, err
	}

	var po domain.PurchaseOrder
	err := s.withTx(ctx, func(r repository) error {
		var id int64
		if in.ID != nil {
			id = *in.ID
			paid, err := r.sumPayments(ctx, id)
			if err != nil {
				return err
			}
			if exceeds(paid, in.TotalAmount) {
				return exceedsTotal(paid, in.TotalAmount)
			}
			if err := r.upsertOrder(ctx, id, in, paid); err != nil {
				return err
			}
		} else {
			var err error
			if id, err = r.insertOrder(ctx, in); err != nil {
				return err
			}
		}
		var err error
		po, err = r.getOrder(ctx, id)
		return err
	})
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	s.logger.Info("purchase order saved", slog.Int64("id", po.ID), slog.String("supplier", po.Supplier))
	return po, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (domain.PurchaseOrder, error) {
	return s.read().getOrder(ctx, id)
}

// GetOrderDetail returns an order with its line items and payments.
func (s *Service) GetOrderDetail(ctx context.Context, id int64) (domain.PurchaseOrderDetail, error) {
	var detail domain.PurchaseOrderDetail
	err := s.withTx(ctx, func(r repository) error {
		po, err := r.getOrder(ctx, id)
		if err != nil {
			return err
		}
		items, err := r.listItems(ctx, id)
		if err != nil {
			return err
		}
		payments, err := r.listPayments(ctx, id)
		if err != nil {
			return err
		}
		detail = domain.PurchaseOrderDetail{PurchaseOrder: po, Items: items, Payments: payments}
		return nil
	})
	return detail, err
}

// ListOrders returns every order, most recent date first.
func (s *Service) ListOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	return s.read().listOrders(ctx)
}

// UpdateOrder rewrites the header fields. The paid amount is recomputed
// from the payments and never taken from the caller.
func (s *Service) UpdateOrder(ctx context.Context, id int64, in OrderInput) (domain.PurchaseOrder, error) {
	if err := s.validateOrder(in); err != nil {
		return domain.PurchaseOrder{}, err
	}

	var po domain.PurchaseOrder
	err := s.withTx(ctx, func(r repository) error {
		if _, err := r.getOrder(ctx, id); err != nil {
			return err
		}
		paid, err := r.sumPayments(ctx, id)
		if err != nil {
			return err
		}
		if exceeds(paid, in.TotalAmount) {
			return exceedsTotal(paid, in.TotalAmount)
		}
		if err := r.updateOrder(ctx, id, in, paid); err != nil {
			return err
		}
		po, err = r.getOrder(ctx, id)
		return err
	})
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	return po, nil
}

// DeleteOrder takes every line item back out of stock, then removes the
// order with its items and payments. Stock is reversed first because the
// quantities are lost once the items are gone.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(r repository) error {
		if _, err := r.getOrder(ctx, id); err != nil {
			return err
		}
		items, err := r.listItems(ctx, id)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.releaseStock(ctx, r, item.Product, item.Quantity); err != nil {
				return err
			}
		}
		return r.deleteOrder(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("purchase order deleted", slog.Int64("id", id))
	return nil
}
