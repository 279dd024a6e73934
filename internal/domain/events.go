package domain

import "time"

type OrderCreatedEvent struct {
	OrderID   int64            `json:"order_id"`
	UserID    int64            `json:"user_id"`
	TotalSum  int64            `json:"total_sum"`
	Items     []OrderItemEvent `json:"items"`
	CreatedAt time.Time        `json:"created_at"`
}

type OrderItemEvent struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type OrderStatusChangedEvent struct {
	OrderID   int64       `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
	ChangedAt time.Time   `json:"changed_at"`
}
