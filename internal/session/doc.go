// Package session holds the client-side authentication session lifecycle.
//
// A Store is the single source of truth for "who is logged in". The same
// construct is instantiated twice with different configuration: once for the
// end-user realm (slot "authToken", login route /login) and once for the
// admin realm (slot "adminToken", login route /admin/login). The two
// instances never read or write each other's token slot.
//
// Session state is resolved, never cached: only the bearer token is
// persisted, and the identity is re-fetched from the API on every
// Initialize. A persisted token the API rejects is silently discarded:
// token expiry is a steady-state event, not an error to surface.
package session
