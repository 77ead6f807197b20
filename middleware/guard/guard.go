// Package guard provides the route guards: pure decisions over the current
// session state, re-evaluated on every request. Protected routes hold
// requests off while the session is still restoring, turn away signed-out
// visitors, and let resolved sessions through; public routes bounce
// signed-in users back to the dashboard.
package guard

import (
	"github.com/goliatone/go-router"

	admin "github.com/samriddha-basu-cloud/kitzcorner-admin"
)

// Config tunes where the guards send rejected requests.
type Config struct {
	// LoginPath receives signed-out visitors of protected routes.
	LoginPath string
	// HomePath receives signed-in visitors of public routes.
	HomePath string
	// JSON switches redirects to status-code responses for API consumers.
	JSON bool
	// Filter skips the guard for matching requests.
	Filter func(router.Context) bool
}

func getDefaultConfig(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/"
	}
	return cfg
}

// Protected admits only resolved, signed-in sessions. While the restore
// listener has not resolved the first state yet, the request is answered
// with 503 and a Retry-After instead of a misleading redirect.
func Protected(store *admin.SessionStore, config ...Config) router.MiddlewareFunc {
	cfg := getDefaultConfig(config...)
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return next(ctx)
			}

			state := store.Current()
			if state.Loading {
				ctx.SetHeader("Retry-After", "1")
				return ctx.JSON(503, map[string]string{
					"error": "session restoring, retry shortly",
				})
			}

			if !state.SignedIn() {
				if cfg.JSON {
					return ctx.JSON(401, map[string]string{
						"error": "authentication required",
					})
				}
				return ctx.Redirect(cfg.LoginPath)
			}

			return next(ctx)
		}
	}
}

// Public admits visitors only while nobody is signed in. A signed-in user
// hitting a login or register route goes back to the dashboard. While
// loading, the request passes: public content is safe to show either way.
func Public(store *admin.SessionStore, config ...Config) router.MiddlewareFunc {
	cfg := getDefaultConfig(config...)
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return next(ctx)
			}

			if store.Current().SignedIn() {
				if cfg.JSON {
					return ctx.JSON(409, map[string]string{
						"error": "already signed in",
					})
				}
				return ctx.Redirect(cfg.HomePath)
			}

			return next(ctx)
		}
	}
}
