package dashboard

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-errors"

	admin "github.com/samriddha-basu-cloud/kitzcorner-admin"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
)

// UnknownCustomer is the display name used when an order references a
// customer document that no longer exists.
const UnknownCustomer = "Unknown Customer"

// OrderRow is an order decorated with the resolved customer name for the
// order screen.
type OrderRow struct {
	*admin.Order
	CustomerName string `json:"customer_name"`
}

// OrderUpdate carries the fields an admin may tweak on an order row.
// Pointers distinguish "leave alone" from "set to zero value".
type OrderUpdate struct {
	OrderStatus   *string `json:"order_status"`
	PaymentStatus *string `json:"payment_status"`
	Refund        *string `json:"refund"`
	PaymentQR     *string `json:"payment_qr"`
}

func (o OrderUpdate) Validate() error {
	if o.OrderStatus == nil {
		return nil
	}
	for _, s := range admin.OrderStatuses {
		if *o.OrderStatus == s {
			return nil
		}
	}
	return errors.New("unknown order status", errors.CategoryBadInput).
		WithTextCode("UNKNOWN_ORDER_STATUS").
		WithMetadata(map[string]any{"status": *o.OrderStatus})
}

// Orders is the order screen service. Listing resolves the customer name per
// row; there is no join in the store, so each row costs one lookup.
type Orders struct {
	orders    *docstore.Collection[admin.Order]
	customers *docstore.Collection[admin.Customer]
	logger    Logger
}

func NewOrders(orders *docstore.Collection[admin.Order], customers *docstore.Collection[admin.Customer]) *Orders {
	return &Orders{orders: orders, customers: customers, logger: noopLogger{}}
}

func (s *Orders) WithLogger(l Logger) *Orders {
	if l != nil {
		s.logger = l
	}
	return s
}

// List returns orders for one status tab (TabAll disables the partition)
// matched by the search over customer name and order status.
func (s *Orders) List(ctx context.Context, tab, search string) ([]*OrderRow, error) {
	all, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not list orders")
	}

	names := map[string]string{}
	out := make([]*OrderRow, 0, len(all))
	for _, o := range all {
		if tab != "" && tab != TabAll && o.OrderStatus != tab {
			continue
		}

		name, ok := names[o.CustomerID]
		if !ok {
			name = s.customerName(ctx, o.CustomerID)
			names[o.CustomerID] = name
		}

		if !matches(search, name, o.OrderStatus) {
			continue
		}
		out = append(out, &OrderRow{Order: o, CustomerName: name})
	}
	return out, nil
}

func (s *Orders) Get(ctx context.Context, id string) (*OrderRow, error) {
	o, err := s.orders.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderRow{Order: o, CustomerName: s.customerName(ctx, o.CustomerID)}, nil
}

// Update applies the admin tweaks to one order. Marking it Delivered also
// flips the delivered flag.
func (s *Orders) Update(ctx context.Context, id string, in OrderUpdate) (*OrderRow, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := validation.Validate(id, validation.Required); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "missing order id")
	}

	current, err := s.orders.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.OrderStatus != nil {
		current.OrderStatus = *in.OrderStatus
		current.OrderDelivered = *in.OrderStatus == admin.OrderDelivered
	}
	if in.PaymentStatus != nil {
		current.PaymentStatus = *in.PaymentStatus
	}
	if in.Refund != nil {
		current.Refund = *in.Refund
	}
	if in.PaymentQR != nil {
		current.PaymentQR = *in.PaymentQR
	}

	now := time.Now()
	current.UpdatedAt = &now

	if err := s.orders.Replace(ctx, id, current); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not update order")
	}

	return s.Get(ctx, id)
}

func (s *Orders) customerName(ctx context.Context, customerID string) string {
	if customerID == "" {
		return UnknownCustomer
	}
	doc, err := s.customers.Read(ctx, customerID)
	if err != nil {
		if !docstore.IsNotFound(err) {
			s.logger.Error("orders: customer lookup failed for %s: %v", customerID, err)
		} else {
			s.logger.Warn("orders: order references missing customer %s", customerID)
		}
		return UnknownCustomer
	}
	if name := doc.DisplayName(); name != "" {
		return name
	}
	return UnknownCustomer
}
