// Package job defines the stateful representation of a shell-command job
// within the queue lifecycle.
//
// A Spec is the enqueue-time payload: a command line and the scheduling
// knobs a caller may set. A Job extends a Spec with the delivery and
// scheduling metadata the store maintains: State, Attempts, WorkerId,
// timestamps and the last failure reason.
//
// Job values are snapshots returned by the Dispatcher and Observer
// interfaces. Mutating a Job value does not change the underlying store;
// transitions must go through those interfaces.
package job
