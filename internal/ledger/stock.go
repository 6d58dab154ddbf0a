package ledger

import (
	"context"
	"log/slog"
)

// adjustStock moves a product's stock by delta. Rules:
//   - no entry: created only when delta > 0 and a price is known
//   - resulting quantity <= 0: entry removed
//   - price, when given, becomes the entry's last price
func (s *Service) adjustStock(ctx context.Context, r repository, product string, delta int64, price *float64) error {
	if delta == 0 && price == nil {
		return nil
	}
	entry, found, err := r.findInventory(ctx, product)
	if err != nil {
		return err
	}
	if !found {
		if delta <= 0 || price == nil {
			return nil
		}
		s.logger.Debug("inventory entry created", slog.String("product", product), slog.Int64("quantity", delta))
		return r.insertInventory(ctx, product, delta, *price)
	}

	qty := entry.Quantity + delta
	if qty <= 0 {
		s.logger.Debug("inventory entry removed", slog.String("product", product))
		return r.deleteInventory(ctx, entry.ID)
	}
	last := entry.LastPrice
	if price != nil {
		last = *price
	}
	return r.updateInventory(ctx, entry.ID, qty, last)
}

func (s *Service) receiveStock(ctx context.Context, r repository, product string, qty int64, price *float64) error {
	return s.adjustStock(ctx, r, product, qty, price)
}

func (s *Service) releaseStock(ctx context.Context, r repository, product string, qty int64) error {
	return s.adjustStock(ctx, r, product, -qty, nil)
}
