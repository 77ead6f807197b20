package admin

import (
	"context"

	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/provider"
)

// ProfileSync reconciles the provider's email-verified flag into the
// persisted customer document. The flow is strictly one-way: the document
// flag follows the identity flag and is never set true first.
type ProfileSync struct {
	customers *docstore.Collection[Customer]
	logger    Logger
}

func NewProfileSync(customers *docstore.Collection[Customer]) *ProfileSync {
	return &ProfileSync{
		customers: customers,
		logger:    defLogger{},
	}
}

func (p *ProfileSync) WithLogger(l Logger) *ProfileSync {
	if l != nil {
		p.logger = l
	}
	return p
}

// Reconcile updates the stored flag when the identity is verified but the
// document is not. It returns the document as it should now read; storage
// failures are returned for the caller to decide whether they block.
func (p *ProfileSync) Reconcile(ctx context.Context, identity *provider.Identity, doc *Customer) (*Customer, error) {
	if identity == nil || doc == nil {
		return doc, nil
	}

	if !identity.EmailVerified || doc.EmailVerified {
		return doc, nil
	}

	if err := p.customers.Update(ctx, doc.ID, &Customer{EmailVerified: true}); err != nil {
		return doc, err
	}

	updated := *doc
	updated.EmailVerified = true
	return &updated, nil
}

// Merge overlays the account document fields onto the identity fields. A nil
// doc yields a profile-less session.
func Merge(identity *provider.Identity, doc *Customer) *MergedUser {
	if identity == nil {
		return nil
	}

	user := &MergedUser{
		ID:            identity.UID,
		Email:         identity.Email,
		DisplayName:   identity.DisplayName,
		EmailVerified: identity.EmailVerified,
	}

	if doc == nil {
		return user
	}

	user.HasProfile = true
	user.Phone = doc.Phone
	user.Status = doc.Status
	user.JoinedAt = doc.JoinedAt
	user.Name = doc.DisplayName()
	if doc.Email != "" {
		user.Email = doc.Email
	}
	// the document flag may lag the identity flag by one restore cycle;
	// consumers see the stronger of the two
	user.EmailVerified = identity.EmailVerified || doc.EmailVerified

	return user
}
