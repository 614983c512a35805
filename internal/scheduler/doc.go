// Package scheduler drives reconciliation passes on a hot-reloadable
// interval.
//
// The first pass starts as soon as Run is called. After each pass the
// scheduler sleeps for the interval held by a config.IntervalCell; changing
// the cell during the sleep moves the wake-up to the start of the sleep plus
// the new interval, or wakes immediately if that moment has passed.
//
// Passes never overlap. Cancelling the context ends the loop without error.
// An error escaping a pass, or a panic inside one, ends the loop with a
// *FatalLoopError. Either way Done is closed exactly once so the host can
// shut down.
package scheduler
