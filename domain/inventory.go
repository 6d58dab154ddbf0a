package domain

// InventoryEntry is the shared stock record for one product. Quantity is
// kept strictly positive; the row is removed instead of reaching zero.
type InventoryEntry struct {
	ID        int64   `db:"id" json:"id"`
	Product   string  `db:"product" json:"product"`
	Quantity  int64   `db:"quantity" json:"quantity"`
	LastPrice float64 `db:"last_price" json:"last_price"`
}
