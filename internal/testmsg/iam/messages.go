// Package iam declares message fixtures for bus tests, standing in for an
// identity module's received types.
package iam

import "time"

// CredentialsProvided mirrors the users fixture type by bare name and shared
// fields. GrantedAt is unique to this side and stays at its zero value after
// transcoding.
type CredentialsProvided struct {
	PublicKey []byte
	Username  string
	GrantedAt time.Time
}
