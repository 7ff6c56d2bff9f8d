package types

// Identity is the authenticated caller as asserted by the identity provider.
// The backend trusts it for every mutation and never stores credentials.
type Identity struct {
	UserID      string
	DisplayName string
	Picture     string
}
