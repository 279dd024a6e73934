package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type CustomerInfo struct {
	Name  string `json:"name" db:"customer_name" validate:"required"`
	Email string `json:"email" db:"customer_email" validate:"required,email"`
	Phone string `json:"phone" db:"customer_phone" validate:"required"`
	TCNo  string `json:"tc_no,omitempty" db:"customer_tc_no"`
}

type ShippingAddress struct {
	FullAddress string `json:"full_address" db:"shipping_address" validate:"required"`
	City        string `json:"city" db:"shipping_city" validate:"required"`
	District    string `json:"district,omitempty" db:"shipping_district"`
	PostalCode  string `json:"postal_code,omitempty" db:"shipping_postal_code"`
}

// Order is a snapshot of the cart plus customer and shipping info, taken at
// payment initiation. Amounts are in kuruş.
type Order struct {
	ID          int64           `json:"id" db:"id"`
	UserID      int64           `json:"user_id" db:"user_id"`
	Status      OrderStatus     `json:"status" db:"status"`
	Items       []OrderItem     `json:"items" db:"items"`
	Customer    CustomerInfo    `json:"customer" db:"customer"`
	Shipping    ShippingAddress `json:"shipping" db:"shipping"`
	Subtotal    int64           `json:"subtotal" db:"subtotal"`
	ShippingFee int64           `json:"shipping_fee" db:"shipping_fee"`
	TotalSum    int64           `json:"total_sum" db:"total_sum"`
	PaymentID   string          `json:"payment_id,omitempty" db:"payment_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type OrderItem struct {
	ID        int64  `json:"id" db:"id"`
	OrderID   int64  `json:"order_id" db:"order_id"`
	ProductID int64  `json:"product_id" db:"product_id"`
	Title     string `json:"title" db:"title"`
	Price     int64  `json:"price" db:"price"`
	Quantity  int32  `json:"quantity" db:"quantity"`
	Color     string `json:"color" db:"color"`
	Size      string `json:"size" db:"size"`
}

func (o *Order) CalculateTotal() {
	var subtotal int64
	for _, item := range o.Items {
		subtotal += item.Price * int64(item.Quantity)
	}
	o.Subtotal = subtotal
	o.TotalSum = subtotal + o.ShippingFee
}
