// Package phase derives a contest's lifecycle flags from its configured
// window timestamps.
//
// There is no stored "current phase" field anywhere in the system. Every
// flag is recomputed from wall-clock time on each call, so results change
// automatically as time passes and no transition trigger can be missed.
// Callers must read "now" once per logical operation and pass it through,
// to avoid straddling a window boundary mid-request.
package phase
