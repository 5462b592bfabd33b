// Package google owns the OAuth2 handshake with Google and the
// persistence of the resulting token.
//
// The AuthFlow builds authorization URLs and exchanges authorization
// codes; the TokenStore persists exactly one token record on disk.
// Token material is never logged.
package google
