// Package credstore provides durable client-side storage for bearer tokens.
//
// Tokens live in named slots ("authToken" for the user realm, "adminToken"
// for the admin realm). Slots are fully independent: no operation reads or
// writes more than one slot. Only the token string is ever persisted; the
// identity payload is always re-fetched from the API.
package credstore
