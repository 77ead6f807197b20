package dashboard

import (
	"context"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"

	admin "github.com/samriddha-basu-cloud/kitzcorner-admin"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
)

// PaymentUpdate carries the editable payment fields. Setting Status to
// success or failed propagates onto the linked order's payment status.
type PaymentUpdate struct {
	Status        *string `json:"status"`
	TransactionID *string `json:"transaction_id"`
	Amount        *float64 `json:"amount"`
}

func (p PaymentUpdate) Validate() error {
	if p.Status == nil {
		return nil
	}
	switch *p.Status {
	case admin.PaymentPending, admin.PaymentSuccess, admin.PaymentCompleted, admin.PaymentFailed:
		return nil
	}
	return errors.New("unknown payment status", errors.CategoryBadInput).
		WithTextCode("UNKNOWN_PAYMENT_STATUS").
		WithMetadata(map[string]any{"status": *p.Status})
}

// Payments is the payment screen service.
type Payments struct {
	payments *docstore.Collection[admin.Payment]
	orders   *docstore.Collection[admin.Order]
	logger   Logger
}

func NewPayments(payments *docstore.Collection[admin.Payment], orders *docstore.Collection[admin.Order]) *Payments {
	return &Payments{payments: payments, orders: orders, logger: noopLogger{}}
}

func (s *Payments) WithLogger(l Logger) *Payments {
	if l != nil {
		s.logger = l
	}
	return s
}

// List returns payments for one status tab (TabAll disables the partition)
// matched by the search over customer name, transaction id, and amount.
func (s *Payments) List(ctx context.Context, tab, search string) ([]*admin.Payment, error) {
	all, err := s.payments.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not list payments")
	}

	out := make([]*admin.Payment, 0, len(all))
	for _, p := range all {
		if tab != "" && tab != TabAll && p.Status != tab {
			continue
		}
		amount := strconv.FormatFloat(p.Amount, 'f', -1, 64)
		if !matches(search, p.CustomerName, p.TransactionID, amount) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Payments) Get(ctx context.Context, id string) (*admin.Payment, error) {
	return s.payments.Read(ctx, id)
}

// Update edits one payment. A terminal status (success or failed) is pushed
// onto the linked order; a propagation failure does not roll back the
// payment write, it is logged and returned.
func (s *Payments) Update(ctx context.Context, id string, in PaymentUpdate) (*admin.Payment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	current, err := s.payments.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		current.Status = *in.Status
	}
	if in.TransactionID != nil {
		current.TransactionID = *in.TransactionID
	}
	if in.Amount != nil {
		current.Amount = *in.Amount
	}

	now := time.Now()
	current.UpdatedAt = &now

	if err := s.payments.Replace(ctx, id, current); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not update payment")
	}

	if in.Status != nil && isTerminal(*in.Status) && current.OrderID != "" {
		if err := s.propagate(ctx, current.OrderID, *in.Status); err != nil {
			s.logger.Error("payments: status propagation to order %s failed: %v", current.OrderID, err)
			return nil, err
		}
	}

	return s.payments.Read(ctx, id)
}

func isTerminal(status string) bool {
	return status == admin.PaymentSuccess || status == admin.PaymentFailed
}

func (s *Payments) propagate(ctx context.Context, orderID, status string) error {
	order, err := s.orders.Read(ctx, orderID)
	if err != nil {
		if docstore.IsNotFound(err) {
			s.logger.Warn("payments: payment references missing order %s", orderID)
			return nil
		}
		return err
	}

	order.PaymentStatus = status
	now := time.Now()
	order.UpdatedAt = &now
	return s.orders.Replace(ctx, orderID, order)
}
