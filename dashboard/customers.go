package dashboard

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-errors"

	admin "github.com/samriddha-basu-cloud/kitzcorner-admin"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
)

// Customer tabs beyond TabAll. Verified/unverified partition on the email
// flag, active/inactive on the account status.
const (
	TabVerified   = "verified"
	TabUnverified = "unverified"
	TabActive     = admin.CustomerActive
	TabInactive   = admin.CustomerInactive
)

// CustomerUpdate carries the fields an admin may edit on a customer
// document. Email verification is owned by profile synchronization and is
// deliberately absent.
type CustomerUpdate struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Status   *string `json:"status"`
}

func (c CustomerUpdate) Validate() error {
	if c.Email != nil {
		if err := validation.Validate(*c.Email, validation.Required, is.EmailFormat); err != nil {
			return errors.Wrap(err, errors.CategoryBadInput, "invalid email address")
		}
	}
	if c.Status != nil && *c.Status != admin.CustomerActive && *c.Status != admin.CustomerInactive {
		return errors.New("unknown customer status", errors.CategoryBadInput).
			WithTextCode("UNKNOWN_CUSTOMER_STATUS")
	}
	return nil
}

// Customers is the customer screen service. Creation happens through
// registration, not here.
type Customers struct {
	collection *docstore.Collection[admin.Customer]
	logger     Logger
}

func NewCustomers(collection *docstore.Collection[admin.Customer]) *Customers {
	return &Customers{collection: collection, logger: noopLogger{}}
}

func (s *Customers) WithLogger(l Logger) *Customers {
	if l != nil {
		s.logger = l
	}
	return s
}

// List returns customers for one tab (TabAll disables the partition) matched
// by the search over name, email, and phone.
func (s *Customers) List(ctx context.Context, tab, search string) ([]*admin.Customer, error) {
	all, err := s.collection.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not list customers")
	}

	out := make([]*admin.Customer, 0, len(all))
	for _, c := range all {
		if !inTab(c, tab) {
			continue
		}
		if !matches(search, c.Name, c.Username, c.Email, c.Phone) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func inTab(c *admin.Customer, tab string) bool {
	switch tab {
	case "", TabAll:
		return true
	case TabVerified:
		return c.EmailVerified
	case TabUnverified:
		return !c.EmailVerified
	default:
		return c.Status == tab
	}
}

func (s *Customers) Get(ctx context.Context, id string) (*admin.Customer, error) {
	return s.collection.Read(ctx, id)
}

// Update applies admin edits to one customer document. A phone edit is
// normalized the same way registration normalizes it.
func (s *Customers) Update(ctx context.Context, id string, in CustomerUpdate) (*admin.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	current, err := s.collection.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		current.Username = *in.Username
	}
	if in.Name != nil {
		current.Name = *in.Name
	}
	if in.Email != nil {
		current.Email = *in.Email
	}
	if in.Phone != nil {
		phone, err := admin.NormalizePhone(*in.Phone)
		if err != nil {
			return nil, err
		}
		current.Phone = phone
	}
	if in.Status != nil {
		current.Status = *in.Status
	}

	now := time.Now()
	current.UpdatedAt = &now

	if err := s.collection.Replace(ctx, id, current); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not update customer")
	}

	return s.collection.Read(ctx, id)
}

func (s *Customers) Delete(ctx context.Context, id string) error {
	return s.collection.Delete(ctx, id)
}
