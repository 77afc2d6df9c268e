// Package models defines the contest domain rows and the JSON payload
// types exchanged with clients.
//
// Domain rows map one-to-one onto database tables. Entity references
// (contest, nominee, vote, invite, user) are opaque UUID strings; user
// references come from the fronting auth proxy and are never resolved
// to account data here.
//
// Vote status lifecycle:
//
//	single  -> double   (social reconciliation upgrade)
//	single  -> invalid  (admin retraction)
//	double  -> invalid  (admin retraction)
//
// Nominee promotion flags (is_semi_finalist, is_finalist, is_winner) are
// monotonic and set only by administrative action.
package models
