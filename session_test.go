package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreStartsLoading(t *testing.T) {
	store := NewSessionStore()

	state := store.Current()
	assert.True(t, state.Loading)
	assert.Nil(t, state.User)
	assert.False(t, state.SignedIn())
}

func TestSessionStoreApplyResolvesLoadingOnce(t *testing.T) {
	store := NewSessionStore()

	require.True(t, store.Apply(1, nil))
	assert.False(t, store.Current().Loading, "first apply resolves loading")

	require.True(t, store.Apply(2, &MergedUser{ID: "u-1"}))
	assert.False(t, store.Current().Loading, "loading never reverts")

	require.True(t, store.Apply(3, nil))
	assert.False(t, store.Current().Loading)
}

func TestSessionStoreRejectsStaleSequence(t *testing.T) {
	store := NewSessionStore()

	require.True(t, store.Apply(2, nil))

	applied := store.Apply(1, &MergedUser{ID: "late"})
	assert.False(t, applied, "an older cycle must not overwrite a newer one")
	assert.Nil(t, store.Current().User)
}

// The sign-out notification resolves instantly while the sign-in's document
// fetch is still in flight; whichever order the results land, the newer
// sequence wins.
func TestSessionStoreRapidSignInSignOut(t *testing.T) {
	store := NewSessionStore()

	// notification order: seq=1 sign-in (slow fetch), seq=2 sign-out
	require.True(t, store.Apply(2, nil))
	assert.False(t, store.Apply(1, &MergedUser{ID: "user-a"}))

	state := store.Current()
	assert.Nil(t, state.User, "final state follows the later notification")
	assert.False(t, state.Loading)
}

func TestSessionStoreSetUserDoesNotConsumeSequence(t *testing.T) {
	store := NewSessionStore()

	require.True(t, store.Apply(1, nil))

	store.SetUser(&MergedUser{ID: "u-login"})
	require.NotNil(t, store.Current().User)

	// the restore cycle for the same sign-in still applies
	assert.True(t, store.Apply(2, &MergedUser{ID: "u-login", HasProfile: true}))
	assert.True(t, store.Current().User.HasProfile)
}

func TestSessionStoreSubscribeSeedsCurrentState(t *testing.T) {
	store := NewSessionStore()
	require.True(t, store.Apply(1, &MergedUser{ID: "u-1"}))

	ch, cancel := store.Subscribe()
	defer cancel()

	state := <-ch
	require.NotNil(t, state.User)
	assert.Equal(t, "u-1", state.User.ID)
	assert.False(t, state.Loading)
}

func TestSessionStoreSubscribeCoalescesToLatest(t *testing.T) {
	store := NewSessionStore()

	ch, cancel := store.Subscribe()
	defer cancel()

	// drain the seed
	<-ch

	store.Apply(1, &MergedUser{ID: "a"})
	store.Apply(2, &MergedUser{ID: "b"})
	store.Apply(3, nil)

	state := <-ch
	assert.Nil(t, state.User, "slow consumer observes the latest state, not the backlog")
}
