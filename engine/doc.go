// Package engine implements the contest lifecycle rules: vote
// recording, judge rankings, score tallying and promotion, and the
// event-invite token protocol. Every gated operation re-derives the
// contest phase from the clock at call time; no phase is ever stored.
package engine
