// Package config resolves server configuration from command-line flags,
// environment variables, and an optional .env file, in that order of
// precedence. Secrets (the session signing key) should come from the
// environment; flags exist for local development only.
package config
