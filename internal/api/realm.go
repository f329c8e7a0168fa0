package api

import "context"

// Realm is a client scoped to one authentication realm. It "pins" the realm's
// routes so session logic can stay identical for users and admins.
type Realm struct {
	client *Client
	admin  bool
}

// UserRealm returns a realm bound to the end-user authentication routes.
func (c *Client) UserRealm() *Realm {
	return &Realm{client: c}
}

// AdminRealm returns a realm bound to the admin console authentication routes.
func (c *Client) AdminRealm() *Realm {
	return &Realm{client: c, admin: true}
}

// WhoAmI resolves a bearer token into the realm's identity.
func (r *Realm) WhoAmI(ctx context.Context, token string) (*Identity, error) {
	if r.admin {
		return r.client.AdminMe(ctx, token)
	}
	return r.client.Me(ctx, token)
}

// Login exchanges credentials for a bearer token in the realm.
func (r *Realm) Login(ctx context.Context, email, password string) (*Credentials, error) {
	if r.admin {
		return r.client.AdminLogin(ctx, email, password)
	}
	return r.client.Login(ctx, email, password)
}
