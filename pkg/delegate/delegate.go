// Package delegate implements root-scoped event delegation: one native
// listener per (root, event type, phase), matching bubbling events against
// registered selectors and dispatching to logical handlers.
//
// A Registry is owned by a single runtime instance. It is the only component
// that attaches listeners to dom elements; everything above it (widget
// behaviors, focus trap, repositioner) registers through On/OnCapture and
// holds the returned unregister function.
package delegate

import (
	"fmt"

	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/errors"
)

// Handler is a delegated event handler. Handler identity (the pointer) is
// what deduplicates registrations, since Go functions are not comparable.
type Handler struct {
	// Fn is invoked with the dispatching event and the ancestor element
	// that matched the registration's selector.
	Fn func(ev *dom.Event, matched *dom.Element)
}

// HandlerFunc wraps a function in a new Handler. Each call allocates a
// distinct identity; callers that need dedup or removal must retain the
// returned pointer.
func HandlerFunc(fn func(ev *dom.Event, matched *dom.Element)) *Handler {
	return &Handler{Fn: fn}
}

// Unregister removes a registration. Calling it more than once is a no-op.
type Unregister func()

type routeKey struct {
	eventType string
	capture   bool
}

// registration is one (selector, handler) pair on a route.
type registration struct {
	selector *dom.Selector
	handler  *Handler
}

// route is the shared native listener for one (root, eventType, phase) and
// its registrations in registration order.
type route struct {
	listener *dom.Listener
	regs     []*registration
}

// Registry owns the listener-per-root map for one runtime instance.
type Registry struct {
	roots map[*dom.Element]map[routeKey]*route
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{roots: make(map[*dom.Element]map[routeKey]*route)}
}

// On registers handler for events of eventType that bubble to root from a
// descendant matching selector. The first registration for a (root,
// eventType) pair attaches exactly one native bubble-phase listener at root;
// later registrations share it. Registering the same selector/handler pair
// again is a no-op that returns the existing unregister function.
func (r *Registry) On(root *dom.Element, eventType, selector string, handler *Handler) (Unregister, error) {
	return r.register(root, eventType, selector, handler, false)
}

// OnCapture is On for the capture phase. It exists as an explicit opt-in for
// focus-related events, which do not bubble.
func (r *Registry) OnCapture(root *dom.Element, eventType, selector string, handler *Handler) (Unregister, error) {
	return r.register(root, eventType, selector, handler, true)
}

func (r *Registry) register(root *dom.Element, eventType, selector string, handler *Handler, capture bool) (Unregister, error) {
	if root == nil {
		return nil, fmt.Errorf("delegate: nil root")
	}
	if handler == nil || handler.Fn == nil {
		return nil, fmt.Errorf("delegate: nil handler")
	}
	sel, err := dom.ParseSelector(selector)
	if err != nil {
		return nil, fmt.Errorf("delegate: %w", err)
	}

	key := routeKey{eventType: eventType, capture: capture}
	routes := r.roots[root]
	if routes == nil {
		routes = make(map[routeKey]*route)
		r.roots[root] = routes
	}
	rt := routes[key]
	if rt == nil {
		rt = &route{}
		rt.listener = &dom.Listener{
			Capture: capture,
			Fn: func(ev *dom.Event) {
				r.dispatch(root, rt, ev)
			},
		}
		routes[key] = rt
		root.AddListener(eventType, rt.listener)
	}

	for _, existing := range rt.regs {
		if existing.handler == handler && existing.selector.String() == sel.String() {
			return r.unregisterFn(root, key, existing), nil
		}
	}

	reg := &registration{selector: sel, handler: handler}
	rt.regs = append(rt.regs, reg)
	return r.unregisterFn(root, key, reg), nil
}

// Off removes the registration for the given selector/handler pair. Unknown
// registrations are ignored.
func (r *Registry) Off(root *dom.Element, eventType, selector string, handler *Handler) {
	r.off(root, routeKey{eventType: eventType, capture: false}, selector, handler)
	r.off(root, routeKey{eventType: eventType, capture: true}, selector, handler)
}

func (r *Registry) off(root *dom.Element, key routeKey, selector string, handler *Handler) {
	rt := r.roots[root][key]
	if rt == nil {
		return
	}
	sel, err := dom.ParseSelector(selector)
	if err != nil {
		return
	}
	for _, reg := range rt.regs {
		if reg.handler == handler && reg.selector.String() == sel.String() {
			r.remove(root, key, reg)
			return
		}
	}
}

func (r *Registry) unregisterFn(root *dom.Element, key routeKey, reg *registration) Unregister {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		r.remove(root, key, reg)
	}
}

// remove drops a registration and detaches the native listener when it was
// the last one for its route.
func (r *Registry) remove(root *dom.Element, key routeKey, reg *registration) {
	routes := r.roots[root]
	rt := routes[key]
	if rt == nil {
		return
	}
	for i, existing := range rt.regs {
		if existing == reg {
			rt.regs = append(rt.regs[:i], rt.regs[i+1:]...)
			break
		}
	}
	if len(rt.regs) == 0 {
		root.RemoveListener(key.eventType, rt.listener)
		delete(routes, key)
		if len(routes) == 0 {
			delete(r.roots, root)
		}
	}
}

// dispatch walks from the event target up to root, testing each ancestor
// against every registered selector in registration order. A handler calling
// StopPropagation halts further ancestor matching for that event only.
//
// Handlers are invoked over a snapshot of the registration list, so a
// handler removing itself (or any other registration) during its own
// invocation cannot corrupt the walk.
func (r *Registry) dispatch(root *dom.Element, rt *route, ev *dom.Event) {
	snapshot := make([]*registration, len(rt.regs))
	copy(snapshot, rt.regs)

	for el := ev.Target(); el != nil; el = el.Parent() {
		for _, reg := range snapshot {
			if !reg.selector.Matches(el) {
				continue
			}
			func() {
				defer errors.Recover("delegate.dispatch")
				reg.handler.Fn(ev, el)
			}()
			if ev.Stopped() {
				return
			}
		}
		if el == root {
			return
		}
	}
}

// ListenerCount returns the number of native listeners the registry holds on
// root for eventType, counting the bubble and capture routes separately.
// It exists so tests can assert that teardown leaves no dangling listeners.
func (r *Registry) ListenerCount(root *dom.Element, eventType string) int {
	count := 0
	for key := range r.roots[root] {
		if key.eventType == eventType {
			count++
		}
	}
	return count
}

// HandlerCount returns the number of registrations on root for eventType
// across both phases.
func (r *Registry) HandlerCount(root *dom.Element, eventType string) int {
	count := 0
	for key, rt := range r.roots[root] {
		if key.eventType == eventType {
			count += len(rt.regs)
		}
	}
	return count
}

// RootCount returns the number of roots that currently hold at least one
// registration.
func (r *Registry) RootCount() int {
	return len(r.roots)
}
