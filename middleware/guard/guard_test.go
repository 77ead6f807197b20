package guard

import (
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"

	admin "github.com/samriddha-basu-cloud/kitzcorner-admin"
)

func resolvedStore(user *admin.MergedUser) *admin.SessionStore {
	store := admin.NewSessionStore()
	store.Apply(1, user)
	return store
}

func run(mw router.MiddlewareFunc, ctx router.Context) error {
	handler := mw(func(c router.Context) error {
		return c.Next()
	})
	return handler(ctx)
}

func TestProtectedHoldsWhileRestoring(t *testing.T) {
	store := admin.NewSessionStore()
	ctx := newStubContext()

	err := run(Protected(store), ctx)

	assert.NoError(t, err)
	assert.False(t, ctx.nextCalled)
	assert.Equal(t, 503, ctx.jsonCode)
	assert.Equal(t, "1", ctx.headers["Retry-After"])
}

func TestProtectedRedirectsSignedOut(t *testing.T) {
	store := resolvedStore(nil)
	ctx := newStubContext()

	err := run(Protected(store), ctx)

	assert.NoError(t, err)
	assert.False(t, ctx.nextCalled)
	assert.Equal(t, "/login", ctx.redirectPath)
}

func TestProtectedRedirectsToConfiguredPath(t *testing.T) {
	store := resolvedStore(nil)
	ctx := newStubContext()

	err := run(Protected(store, Config{LoginPath: "/auth/sign-in"}), ctx)

	assert.NoError(t, err)
	assert.Equal(t, "/auth/sign-in", ctx.redirectPath)
}

func TestProtectedRespondsJSONWhenConfigured(t *testing.T) {
	store := resolvedStore(nil)
	ctx := newStubContext()

	err := run(Protected(store, Config{JSON: true}), ctx)

	assert.NoError(t, err)
	assert.False(t, ctx.nextCalled)
	assert.Equal(t, 401, ctx.jsonCode)
	assert.Empty(t, ctx.redirectPath)
}

func TestProtectedAdmitsSignedIn(t *testing.T) {
	store := resolvedStore(&admin.MergedUser{ID: "uid-1", Email: "kiran@example.com"})
	ctx := newStubContext()

	err := run(Protected(store), ctx)

	assert.NoError(t, err)
	assert.True(t, ctx.nextCalled)
	assert.Empty(t, ctx.redirectPath)
}

func TestProtectedFilterBypassesGuard(t *testing.T) {
	store := admin.NewSessionStore()
	ctx := newStubContext()
	ctx.path = "/healthz"

	cfg := Config{Filter: func(c router.Context) bool {
		return c.Path() == "/healthz"
	}}
	err := run(Protected(store, cfg), ctx)

	assert.NoError(t, err)
	assert.True(t, ctx.nextCalled)
	assert.Zero(t, ctx.jsonCode)
}

func TestPublicBouncesSignedIn(t *testing.T) {
	store := resolvedStore(&admin.MergedUser{ID: "uid-1"})
	ctx := newStubContext()

	err := run(Public(store), ctx)

	assert.NoError(t, err)
	assert.False(t, ctx.nextCalled)
	assert.Equal(t, "/", ctx.redirectPath)
}

func TestPublicRespondsJSONWhenConfigured(t *testing.T) {
	store := resolvedStore(&admin.MergedUser{ID: "uid-1"})
	ctx := newStubContext()

	err := run(Public(store, Config{JSON: true}), ctx)

	assert.NoError(t, err)
	assert.Equal(t, 409, ctx.jsonCode)
	assert.Empty(t, ctx.redirectPath)
}

func TestPublicAdmitsSignedOut(t *testing.T) {
	store := resolvedStore(nil)
	ctx := newStubContext()

	err := run(Public(store), ctx)

	assert.NoError(t, err)
	assert.True(t, ctx.nextCalled)
}

func TestPublicAdmitsWhileRestoring(t *testing.T) {
	store := admin.NewSessionStore()
	ctx := newStubContext()

	err := run(Public(store), ctx)

	assert.NoError(t, err)
	assert.True(t, ctx.nextCalled)
}

func TestPublicFilterBypassesGuard(t *testing.T) {
	store := resolvedStore(&admin.MergedUser{ID: "uid-1"})
	ctx := newStubContext()
	ctx.path = "/logout"

	cfg := Config{Filter: func(c router.Context) bool {
		return c.Path() == "/logout"
	}}
	err := run(Public(store, cfg), ctx)

	assert.NoError(t, err)
	assert.True(t, ctx.nextCalled)
}
