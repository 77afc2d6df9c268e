// Package auth provides nonce generation for event invites and HMAC
// signing for session cookies.
package auth
