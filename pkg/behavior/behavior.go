// Package behavior defines the strategy interface every widget behavior
// module implements, and the environment the lifecycle coordinator hands to
// it.
//
// Behaviors are plain strategy objects composed from the delegation
// registry, focus trap and positioning utilities; there is no widget class
// hierarchy. A behavior owns its private interaction state for the lifetime
// of one mount and exposes exactly two operations to the rest of the
// runtime: transform the host's declarative markup into the enhanced
// structure, and initialize the interaction wiring.
package behavior

import (
	"context"

	"github.com/go-drift/enhance/pkg/announce"
	"github.com/go-drift/enhance/pkg/config"
	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/schedule"
)

// Teardown undoes everything a behavior's Init wired up. Teardown functions
// are idempotent: the coordinator calls them exactly once, but a second call
// must not panic or double-free.
type Teardown func()

// Behavior is one widget's interaction logic.
type Behavior interface {
	// Kind returns the widget kind this behavior implements, e.g.
	// "enhance-dialog".
	Kind() string

	// Transform builds the enhanced subtree for host from its current
	// declarative children and returns its detached root. Transform must
	// not mutate host: the transformer attaches the result only after
	// Transform succeeds, keeping failed transformations all-or-nothing.
	// A host missing the kind's minimum structure yields a
	// *errors.StructureError.
	Transform(host *dom.Element) (*dom.Element, error)

	// Init wires the behavior's event handlers through env.Events and
	// returns the teardown that removes them. It runs only after the
	// host's transformation succeeded, so delegated events can never
	// observe a half-enhanced host.
	Init(host *dom.Element, env Env) (Teardown, error)
}

// Env is the shared runtime surface a behavior composes with. All fields are
// owned by the runtime instance; behaviors must not retain them past
// teardown.
type Env struct {
	// Doc is the document the host lives in.
	Doc *dom.Document
	// Events is the runtime's delegation registry, the only path to
	// native listeners.
	Events *delegate.Registry
	// Frames schedules animation-frame work.
	Frames schedule.Frames
	// Clock supplies timers for delays and debouncing.
	Clock schedule.Clock
	// Announcer writes to the shared live region.
	Announcer *announce.Announcer
	// Defaults carries configured behavior defaults.
	Defaults config.Defaults
}

// Resolver loads the behavior module for a widget kind. Resolution is the
// runtime's asynchronous suspension point: implementations may block, and
// the coordinator guarantees a mount superseded by an unmount while
// resolving aborts cleanly. Failure must be a *errors.ResolveError.
type Resolver func(ctx context.Context, kind string) (Behavior, error)
