// Package admin implements the KitzCorner admin backend: the authenticated
// session lifecycle plus the dashboard services (catalog, customers, orders,
// payments) layered on top of it.
//
// Session lifecycle:
//   - SessionStore is the single process-wide holder of the merged signed-in
//     user (auth provider identity overlaid with the persisted account
//     document) and the initial loading flag. Consumers subscribe to state
//     changes; they never poll.
//   - RestoreListener owns the provider's session-change feed. Every
//     notification carries a monotonic sequence number so a slow account
//     document fetch from a superseded notification can never clobber newer
//     state.
//   - Credentials exposes register, login, logout, and password reset. Login
//     is the one path that reconciles the account document's emailVerified
//     flag synchronously, before the call returns.
//
// Storage, authentication, and image hosting are external collaborators
// reached through the docstore, provider, and media packages respectively.
package admin
