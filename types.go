package admin

import (
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ADMIN "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ADMIN "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ADMIN "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ADMIN "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

// MergedUser is the value the rest of the application sees for the signed-in
// user: provider identity fields overlaid with the account document fields.
type MergedUser struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"display_name,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	Name          string     `json:"name,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Status        string     `json:"status,omitempty"`
	JoinedAt      *time.Time `json:"joined_at,omitempty"`

	// HasProfile is false for provider identities with no account document
	// (a provider-level account with no business record).
	HasProfile bool `json:"has_profile"`
}

// SessionState is the snapshot SessionStore hands to consumers. User is nil
// when nobody is signed in. Loading stays true until the first restore event
// has resolved, including the "no one signed in" case.
type SessionState struct {
	User    *MergedUser
	Loading bool
	Seq     uint64
}

// SignedIn reports whether a resolved session has a user.
func (s SessionState) SignedIn() bool {
	return !s.Loading && s.User != nil
}
