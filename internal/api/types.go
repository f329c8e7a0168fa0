package api

// Identity is the authenticated user or admin profile record returned by the
// API. It is never persisted client-side; it is re-fetched on every session
// resolution.
type Identity struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	IsEmailVerified   bool   `json:"isEmailVerified"`
	PostalCode        string `json:"postalCode,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// Credentials pairs a freshly issued bearer token with the identity it was
// issued for. Register responses carry an identity that is not yet verified.
type Credentials struct {
	Token    string
	Identity *Identity
}

// RegistrationProfile is the payload for POST /auth/register.
type RegistrationProfile struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	PostalCode string `json:"postalCode,omitempty"`
}

// ProfileUpdate is the payload for PUT /users/profile. Empty fields are
// omitted so the backend only touches what the caller set.
type ProfileUpdate struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// envelope is the standard response wrapper used by the YYC Track API.
type envelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Token   string    `json:"token,omitempty"`
	User    *Identity `json:"user,omitempty"`
}
