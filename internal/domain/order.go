package domain

// Order submission status sent to the order service. Orders always enter the
// pipeline as pending; fulfillment transitions are the order service's job.
const OrderStatusPending = "pending"

// OrderItem is a cart line mapped into the order submission.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// OrderPayment describes the payment leg of a submission. Amount is the
// charge total: cart subtotal plus shipping.
type OrderPayment struct {
	Method string `json:"method"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// OrderSubmission is the payload sent to the order service when the checkout
// is confirmed. TotalAmount carries the subtotal only; shipping and tax are
// tracked as separate fields.
type OrderSubmission struct {
	CustomerID      string       `json:"customer_id"`
	Items           []OrderItem  `json:"items"`
	ShippingAddress Address      `json:"shipping_address"`
	Payment         OrderPayment `json:"payment"`
	TotalAmount     int64        `json:"total_amount"`
	ShippingCost    int64        `json:"shipping_cost"`
	Tax             int64        `json:"tax"`
	Status          string       `json:"status"`
}
