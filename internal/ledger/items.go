package ledger

import (
	"context"

	"vitaleco/m/domain"
)

// ListItems returns the lines of an existing order.
func (s *Service) ListItems(ctx context.Context, orderID int64) ([]domain.LineItem, error) {
	var items []domain.LineItem
	err := s.withTx(ctx, func(r repository) error {
		if _, err := r.getOrder(ctx, orderID); err != nil {
			return err
		}
		var err error
		items, err = r.listItems(ctx, orderID)
		return err
	})
	return items, err
}

// GetItem returns one line of an order.
func (s *Service) GetItem(ctx context.Context, orderID, itemID int64) (domain.LineItem, error) {
	return s.read().getItem(ctx, orderID, itemID)
}

// AddItem records a product line and receives it into stock. A line
// without a price raises an existing entry's quantity but never creates
// a new entry.
func (s *Service) AddItem(ctx context.Context, orderID int64, in ItemInput) (domain.LineItem, error) {
	if err := ValidateStruct(s.validate, in); err != nil {
		return domain.LineItem{}, err
	}

	var item domain.LineItem
	err := s.withTx(ctx, func(r repository) error {
		if _, err := r.getOrder(ctx, orderID); err != nil {
			return err
		}
		id, err := r.insertItem(ctx, orderID, in)
		if err != nil {
			return err
		}
		if err := s.receiveStock(ctx, r, in.Product, in.Quantity, in.Price); err != nil {
			return err
		}
		item, err = r.getItem(ctx, orderID, id)
		return err
	})
	return item, err
}

// UpdateItem rewrites a line and moves stock by the difference. An
// unpriced line that never created an entry is received in full once it
// gets a price. When the product changes the old line is released and the
// new one received.
func (s *Service) UpdateItem(ctx context.Context, orderID, itemID int64, in ItemInput) (domain.LineItem, error) {
	if err := ValidateStruct(s.validate, in); err != nil {
		return domain.LineItem{}, err
	}

	var item domain.LineItem
	err := s.withTx(ctx, func(r repository) error {
		old, err := r.getItem(ctx, orderID, itemID)
		if err != nil {
			return err
		}
		if err := r.updateItem(ctx, orderID, itemID, in); err != nil {
			return err
		}
		if old.Product == in.Product {
			_, found, ferr := r.findInventory(ctx, in.Product)
			if ferr != nil {
				return ferr
			}
			if !found && old.Price == nil {
				// the unpriced line never reached stock
				err = s.receiveStock(ctx, r, in.Product, in.Quantity, in.Price)
			} else {
				err = s.adjustStock(ctx, r, in.Product, in.Quantity-old.Quantity, in.Price)
			}
		} else {
			if err = s.releaseStock(ctx, r, old.Product, old.Quantity); err == nil {
				err = s.receiveStock(ctx, r, in.Product, in.Quantity, in.Price)
			}
		}
		if err != nil {
			return err
		}
		item, err = r.getItem(ctx, orderID, itemID)
		return err
	})
	return item, err
}

// DeleteItem releases the line's quantity from stock and removes it.
func (s *Service) DeleteItem(ctx context.Context, orderID, itemID int64) error {
	return s.withTx(ctx, func(r repository) error {
		item, err := r.getItem(ctx, orderID, itemID)
		if err != nil {
			return err
		}
		if err := s.releaseStock(ctx, r, item.Product, item.Quantity); err != nil {
			return err
		}
		return r.deleteItem(ctx, orderID, itemID)
	})
}
