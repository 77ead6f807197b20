package admin

import (
	"time"

	"github.com/uptrace/bun"
)

// Customer account statuses as the customer screen partitions them.
const (
	CustomerActive   = "active"
	CustomerInactive = "inactive"
)

// Customer is the account document: one per registered identity, keyed by
// the identity's uid. Created at registration, mutated by profile
// synchronization and by admin edits, never deleted by the session core.
type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:cst"`
	ID            string     `bun:"id,pk" json:"id,omitempty"`
	Username      string     `bun:"username" json:"username,omitempty"`
	Name          string     `bun:"name" json:"name,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	Phone         string     `bun:"phone" json:"phone,omitempty"`
	EmailVerified bool       `bun:"is_email_verified" json:"email_verified"`
	Status        string     `bun:"status" json:"status,omitempty"`
	JoinedAt      *time.Time `bun:"joined_at,nullzero,default:current_timestamp" json:"joined_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// DisplayName prefers the admin-edited full name over the registration
// username.
func (c *Customer) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Username
}

// Product is a catalog entry. Images hold hosted asset URLs; removing one
// only removes the reference, not the asset.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`
	ID            string     `bun:"id,pk" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Price         float64    `bun:"price,notnull" json:"price"`
	Discount      float64    `bun:"discount" json:"discount"`
	Category      string     `bun:"category" json:"category,omitempty"`
	Images        []string   `bun:"images,type:jsonb" json:"images,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// DiscountedPrice applies the percentage discount, rounded to cents.
func (p *Product) DiscountedPrice() float64 {
	price := p.Price - p.Price*p.Discount/100
	return float64(int64(price*100+0.5)) / 100
}

// CategoryLabel is the badge text; empty categories read "Uncategorized".
func (p *Product) CategoryLabel() string {
	if p.Category == "" {
		return "Uncategorized"
	}
	return p.Category
}

// OrderStatus is an order's fulfillment stage.
type OrderStatus = string

const (
	OrderPending    OrderStatus = "Pending"
	OrderReceived   OrderStatus = "Received"
	OrderDispatched OrderStatus = "Dispatched"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists the status tabs in display order.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderReceived,
	OrderDispatched,
	OrderDelivered,
	OrderCancelled,
}

// Order references its customer by document id; the customer name shown on
// the order screen is resolved per row at list time.
type Order struct {
	bun.BaseModel  `bun:"table:orders,alias:ord"`
	ID             string     `bun:"id,pk" json:"id,omitempty"`
	CustomerID     string     `bun:"customer_id,notnull" json:"customer_id,omitempty"`
	OrderStatus    string     `bun:"order_status" json:"order_status,omitempty"`
	PaymentStatus  string     `bun:"payment_status" json:"payment_status,omitempty"`
	TotalAmount    float64    `bun:"total_amount" json:"total_amount"`
	Refund         string     `bun:"refund" json:"refund,omitempty"`
	PaymentQR      string     `bun:"payment_qr" json:"payment_qr,omitempty"`
	OrderDelivered bool       `bun:"order_delivered" json:"order_delivered"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Payment statuses as the payment screen partitions them.
const (
	PaymentPending   = "pending"
	PaymentSuccess   = "success"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment records a transaction against an order.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:pay"`
	ID            string     `bun:"id,pk" json:"id,omitempty"`
	OrderID       string     `bun:"order_id" json:"order_id,omitempty"`
	CustomerID    string     `bun:"customer_id" json:"customer_id,omitempty"`
	CustomerName  string     `bun:"customer_name" json:"customer_name,omitempty"`
	TransactionID string     `bun:"transaction_id" json:"transaction_id,omitempty"`
	Amount        float64    `bun:"amount" json:"amount"`
	Status        string     `bun:"status" json:"status,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
