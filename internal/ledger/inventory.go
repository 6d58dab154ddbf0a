package ledger

import (
	"context"
	"strings"

	"vitaleco/m/domain"
)

// ListInventory returns every stock entry ordered by product name.
func (s *Service) ListInventory(ctx context.Context) ([]domain.InventoryEntry, error) {
	return s.read().listInventory(ctx)
}

// GetInventory looks up the stock entry for a product name.
func (s *Service) GetInventory(ctx context.Context, product string) (domain.InventoryEntry, error) {
	product = strings.TrimSpace(product)
	entry, found, err := s.read().findInventory(ctx, product)
	if err != nil {
		return domain.InventoryEntry{}, err
	}
	if !found {
		return domain.InventoryEntry{}, notFound("no inventory entry for product %q", product)
	}
	return entry, nil
}
