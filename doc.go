/*
Package sigward manages the dispositions of OS signals for a single process,
with a focus on scoped, reversible changes.

Broadly, the tools belong to a few distinct groups:

  - Disposition management: [Registry], [Reaction], [Registry.Set], [Registry.Get]
  - Handler chains: [Registry.Chain], [Registry.Unchain], [Token]
  - Scoped overrides: [Registry.Override], [Registry.With], [Frame]
  - Deadlines: [Registry.WithTimeout], [TimeoutError]
  - Blocking: [Registry.Block], [Registry.WhileBlocked], [BlockFrame]
  - Event-loop handoff: [Registry.Async], [Scheduler], [Loop]

# Dispositions

Every signal known to the platform (see [Lookup], [Exists]) has exactly one
active [Reaction] at a time: the OS default action, ignore, or an ordered
chain of handlers. [Registry.Set] swaps the reaction for one or more signals
and returns what was previously installed; [Registry.ResetAll] returns every
catchable signal to the default action.

Dispositions are process-global state. A [Registry] is the synchronized owner
of that state, and most programs should use the package-level [Default]
registry and the top-level wrappers ([Set], [Chain], [With], and so on) rather
than constructing several registries that would contend over the same signals.

# Handler chains

[Registry.Chain] adds a handler before or after the existing chain for a
signal. When the signal is delivered, every entry runs in order; an entry
returning an error or panicking does not stop its siblings. Collected errors
are reported through the registry's delivery-error hook, never dropped.

# Scoped overrides

[Registry.Override] installs a reaction and returns a [Frame] that restores
the previous one. [Registry.With] does the install/restore pairing for you,
restoring on every exit path including panics. Frames over the same signal
nest and restore in reverse order of entry. If some other actor changed the
signal while a frame was open, restoring reports a [Conflict] and still forces
the saved reaction: the last scope to exit wins.

[Registry.WithTimeout] and [Registry.Block] are specialized scopes: the first
arms the process's one alarm resource to abort a block of work with a
[TimeoutError], the second holds delivery of chosen signals until the scope
ends, at which point anything that arrived is delivered (coalesced, exactly
once per pending signal) using whatever reaction is current at that moment.

# Event-loop handoff

Handlers registered through [Registry.Chain] run on the registry's dispatch
goroutine. When a callback needs to run as an ordinary unit of work on the
application's own event loop instead, [Registry.Async] routes delivery as a
minimal marker through the dispatch channel and schedules the callback on the
attached [Scheduler]. [Loop] is a small cooperative scheduler satisfying that
interface, for applications that don't already run one.
*/
package sigward
