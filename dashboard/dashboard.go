// Package dashboard implements the admin list screens: products, orders,
// payments, and customers. Each service lists through its collection and
// filters in memory; mutations write through and callers re-fetch, so a list
// is never patched in place from a mutation result.
package dashboard

import "strings"

// Logger is the logging surface used by the dashboard services.
type Logger interface {
	Error(format string, args ...any)
	Warn(format string, args ...any)
	Info(format string, args ...any)
	Debug(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Debug(string, ...any) {}

// TabAll is the tab value that disables status partitioning on every screen.
const TabAll = "all"

// matches reports whether needle occurs in any of the haystacks,
// case-insensitively. An empty needle matches everything, which makes the
// search filters idempotent for the no-query case.
func matches(needle string, haystacks ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
