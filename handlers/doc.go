// Package handlers wires HTTP requests to the contest engine. The wire
// contract is deliberately thin: {} on success or idempotent no-op,
// {"message": ...} on a reportable condition. Authorization failures
// carry only an HTTP status.
//
// Identity arrives in the X-User-Ref header, set by the fronting auth
// proxy; an absent header means anonymous. Event voters are identified
// solely by their signed invite cookie.
package handlers
