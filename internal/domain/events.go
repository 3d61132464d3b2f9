package domain

import "time"

// Типы доменных событий. Каждый разрешённый переход жизненного цикла
// фиксирует ровно одно событие соответствующего типа.
const (
	EventTypeOrderPlaced          = "OrderPlaced"
	EventTypeOrderConfirmed       = "OrderConfirmed"
	EventTypeOrderShipped         = "OrderShipped"
	EventTypeOrderDelivered       = "OrderDelivered"
	EventTypeOrderCancelled       = "OrderCancelled"
	EventTypeOrderIssueReported   = "OrderIssueReported"
	EventTypeOrderDisputeResolved = "OrderDisputeResolved"
)

// OrderPlacedEvent публикуется при создании заказа.
type OrderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	DealerID    string    `json:"dealer_id"`
	TotalAmount int64     `json:"total_amount"`
	OrderDate   time.Time `json:"order_date"`
	PlacedBy    string    `json:"placed_by"`
}

// OrderConfirmedEvent публикуется при подтверждении заказа и резервировании стока.
type OrderConfirmedEvent struct {
	OrderID    string    `json:"order_id"`
	DealerID   string    `json:"dealer_id"`
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
}

// OrderShippedEvent публикуется при отгрузке заказа дилеру.
type OrderShippedEvent struct {
	OrderID   string    `json:"order_id"`
	DealerID  string    `json:"dealer_id"`
	Carrier   string    `json:"carrier,omitempty"`
	Reference string    `json:"reference,omitempty"`
	ShippedAt time.Time `json:"shipped_at"`
}

// DeliveredItem — позиция в составе события о доставке.
type DeliveredItem struct {
	VariantID string `json:"variant_id"`
	Qty       int32  `json:"qty"`
}

// OrderDeliveredEvent публикуется при подтверждении доставки дилером.
type OrderDeliveredEvent struct {
	OrderID      string          `json:"order_id"`
	DealerID     string          `json:"dealer_id"`
	DeliveryDate time.Time       `json:"delivery_date"`
	TotalAmount  int64           `json:"total_amount"`
	Items        []DeliveredItem `json:"items"`
}

// OrderCancelledEvent публикуется при отмене заказа.
type OrderCancelledEvent struct {
	OrderID     string    `json:"order_id"`
	CancelledBy string    `json:"cancelled_by"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// OrderIssueReportedEvent публикуется при открытии спора дилером.
type OrderIssueReportedEvent struct {
	OrderID    string    `json:"order_id"`
	DealerID   string    `json:"dealer_id"`
	ReportedBy string    `json:"reported_by"`
	Reason     string    `json:"reason"`
	ReportedAt time.Time `json:"reported_at"`
}

// OrderDisputeResolvedEvent публикуется при закрытии спора персоналом.
type OrderDisputeResolvedEvent struct {
	OrderID    string    `json:"order_id"`
	ResolvedBy string    `json:"resolved_by"`
	Outcome    string    `json:"outcome"`
	Notes      string    `json:"notes,omitempty"`
	ResolvedAt time.Time `json:"resolved_at"`
}
