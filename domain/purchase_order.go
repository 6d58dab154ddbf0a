package domain

// PurchaseOrder is a supplier purchase (bon d'achat). PaidAmount is always
// the sum of its payments.
type PurchaseOrder struct {
	ID          int64   `db:"id" json:"id"`
	Date        Date    `db:"date" json:"date"`
	Supplier    string  `db:"supplier" json:"supplier"`
	TotalAmount float64 `db:"total_amount" json:"total_amount"`
	PaidAmount  float64 `db:"paid_amount" json:"paid_amount"`
}

// LineItem is a product line on a purchase order. A nil Price means the
// price is not known yet.
type LineItem struct {
	ID              int64    `db:"id" json:"id"`
	Product         string   `db:"product" json:"product"`
	Quantity        int64    `db:"quantity" json:"quantity"`
	Price           *float64 `db:"price" json:"price"`
	PurchaseOrderID int64    `db:"purchase_order_id" json:"purchase_order_id"`
}

type PaymentMethod string

const (
	PaymentCheck PaymentMethod = "check"
	PaymentCash  PaymentMethod = "cash"
)

// Payment (versement) applied against a purchase order.
type Payment struct {
	ID              int64         `db:"id" json:"id"`
	Amount          float64       `db:"amount" json:"amount"`
	Method          PaymentMethod `db:"method" json:"method"`
	PurchaseOrderID int64         `db:"purchase_order_id" json:"purchase_order_id"`
}

// PurchaseOrderDetail is an order with its children.
type PurchaseOrderDetail struct {
	PurchaseOrder
	Items    []LineItem `json:"items"`
	Payments []Payment  `json:"payments"`
}
