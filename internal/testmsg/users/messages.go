// Package users declares message fixtures for bus tests, standing in for a
// user-management module's published types.
package users

// CredentialsProvided is emitted when a user submits their key material.
// The iam fixture package declares a structurally-similar type with the same
// bare name; the pair exercises cross-module name-based routing.
type CredentialsProvided struct {
	PublicKey  []byte
	Username   string
	Passphrase string // not declared by receivers, dropped in transit
}

// UserRegistered is emitted after a user account is created.
type UserRegistered struct {
	UserID string
	Email  string
}
