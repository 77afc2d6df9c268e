// Package store is the sqlx persistence layer. One Storage struct, one
// file per aggregate. All methods take a context and scope their work to
// a single statement or transaction; cross-entity invariants (one live
// vote per user per contest, one invite per identity) are enforced by
// unique indexes, and callers translate the resulting pq errors into
// friendly no-ops.
package store
