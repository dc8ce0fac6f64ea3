// Package runtime coordinates widget lifecycles: it resolves behavior
// modules, drives the DOM transformer and owns the per-instance delegation
// registry.
//
// Mount and Unmount are idempotent. Mounting an already-mounted host is a
// silent no-op, as is unmounting a host without an instance; the surrounding
// component framework may double-invoke its lifecycle hooks without harm.
// Each mount runs in its own failure boundary: a structure mismatch, a
// resolution failure or a panic inside one behavior leaves that host
// unenhanced and natively functional, and never affects other hosts.
package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-drift/enhance/pkg/announce"
	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/config"
	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/errors"
	"github.com/go-drift/enhance/pkg/schedule"
	"github.com/go-drift/enhance/pkg/transform"
	"github.com/go-drift/enhance/pkg/widgets"
)

// Options configures a runtime instance. Zero-value fields fall back to the
// production defaults.
type Options struct {
	// Resolver loads behavior modules; defaults to widgets.Resolve.
	Resolver behavior.Resolver
	// Frames schedules animation-frame work; defaults to synchronous
	// frames.
	Frames schedule.Frames
	// Clock supplies timers; defaults to the system clock.
	Clock schedule.Clock
	// Defaults carries behavior configuration; defaults to
	// config.Standard().
	Defaults config.Defaults
}

// instance is one Active Instance: a mounted behavior and its teardown.
type instance struct {
	kind     string
	teardown behavior.Teardown
}

// attempt identifies one in-flight mount. Completion is gated on the
// attempt still being the host's pending record, so an unmount issued while
// the resolver runs makes the late completion abort instead of leaking an
// instance.
type attempt struct {
	kind   string
	cancel context.CancelFunc
}

// Runtime is one lifecycle coordinator instance. All shared mutable state
// (the delegation registry, the transformer records, the instance map) is
// owned here rather than at package level, so independent runtimes and
// tests cannot leak into each other.
type Runtime struct {
	doc         *dom.Document
	events      *delegate.Registry
	transformer *transform.Transformer
	announcer   *announce.Announcer
	resolver    behavior.Resolver
	env         behavior.Env

	mu      sync.Mutex
	modules map[string]behavior.Behavior
	active  map[*dom.Element]*instance
	pending map[*dom.Element]*attempt
}

// New creates a runtime for doc.
func New(doc *dom.Document, opts Options) *Runtime {
	if opts.Resolver == nil {
		opts.Resolver = widgets.Resolve
	}
	if opts.Frames == nil {
		opts.Frames = schedule.SyncFrames{}
	}
	if opts.Clock == nil {
		opts.Clock = schedule.SystemClock{}
	}
	if opts.Defaults == (config.Defaults{}) {
		opts.Defaults = config.Standard()
	}

	r := &Runtime{
		doc:         doc,
		events:      delegate.NewRegistry(),
		transformer: transform.NewTransformer(),
		announcer:   announce.New(doc, opts.Frames),
		resolver:    opts.Resolver,
		modules:     make(map[string]behavior.Behavior),
		active:      make(map[*dom.Element]*instance),
		pending:     make(map[*dom.Element]*attempt),
	}
	r.env = behavior.Env{
		Doc:       doc,
		Events:    r.events,
		Frames:    opts.Frames,
		Clock:     opts.Clock,
		Announcer: r.announcer,
		Defaults:  opts.Defaults,
	}
	return r
}

// Events returns the runtime's delegation registry.
func (r *Runtime) Events() *delegate.Registry {
	return r.events
}

// Transformer returns the runtime's DOM transformer.
func (r *Runtime) Transformer() *transform.Transformer {
	return r.transformer
}

// IsMounted reports whether host has an Active Instance.
func (r *Runtime) IsMounted(host *dom.Element) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[host]
	return ok
}

// ActiveCount returns the number of Active Instances.
func (r *Runtime) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// Mount enhances host as the given widget kind.
//
// A host with an existing active or pending instance is left alone. The
// behavior module is resolved once per kind and cached for the runtime's
// lifetime; resolution runs outside the runtime lock so a slow resolver
// does not stall other hosts, and an Unmount issued meanwhile aborts the
// completion. Handlers are registered only after the transformation
// succeeded, so no delegated event can observe a half-enhanced host. On
// failure the host keeps its declarative markup and native semantics.
func (r *Runtime) Mount(host *dom.Element, kind string) error {
	if host == nil {
		return fmt.Errorf("runtime: nil host")
	}

	r.mu.Lock()
	if _, ok := r.active[host]; ok {
		r.mu.Unlock()
		return nil
	}
	if _, ok := r.pending[host]; ok {
		r.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	att := &attempt{kind: kind, cancel: cancel}
	r.pending[host] = att
	b, cached := r.modules[kind]
	r.mu.Unlock()

	if !cached {
		resolved, err := r.resolver(ctx, kind)
		r.mu.Lock()
		if r.pending[host] != att {
			// Superseded by an unmount while resolving.
			r.mu.Unlock()
			cancel()
			return nil
		}
		if err != nil {
			delete(r.pending, host)
			r.mu.Unlock()
			cancel()
			werr := &errors.EnhanceError{
				Op:         "runtime.Mount",
				Kind:       errors.KindResolve,
				WidgetKind: kind,
				Err:        err,
			}
			errors.Report(werr)
			return werr
		}
		r.modules[kind] = resolved
		b = resolved
		r.mu.Unlock()
	}

	r.mu.Lock()
	if r.pending[host] != att {
		r.mu.Unlock()
		cancel()
		return nil
	}
	delete(r.pending, host)
	r.mu.Unlock()
	cancel()

	teardown, err := r.enhance(host, b)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.active[host] = &instance{kind: kind, teardown: teardown}
	r.mu.Unlock()
	return nil
}

// enhance transforms and initializes host inside a panic boundary. A panic
// in the behavior reverses the transformation and surfaces as an error.
func (r *Runtime) enhance(host *dom.Element, b behavior.Behavior) (teardown behavior.Teardown, err error) {
	defer errors.RecoverWithCallback("runtime.Mount", func(v any) {
		if r.transformer.IsTransformed(host) {
			r.transformer.Restore(host)
		}
		teardown = nil
		err = fmt.Errorf("behavior %q panicked: %v", b.Kind(), v)
	})

	if _, err := r.transformer.Apply(host, b); err != nil {
		return nil, err
	}
	teardown, err = b.Init(host, r.env)
	if err != nil {
		r.transformer.Restore(host)
		werr := &errors.EnhanceError{
			Op:         "runtime.Mount",
			Kind:       errors.KindOf(err),
			WidgetKind: b.Kind(),
			Err:        err,
		}
		errors.Report(werr)
		return nil, werr
	}
	return teardown, nil
}

// Unmount tears down host's Active Instance.
//
// Without an instance it is a silent no-op. An in-flight mount for host is
// cancelled: its completion will find the pending record gone and abort
// without registering anything. The enhanced DOM is left in place; a later
// Mount re-probes the transformation and reuses it.
func (r *Runtime) Unmount(host *dom.Element) {
	r.mu.Lock()
	if att, ok := r.pending[host]; ok {
		delete(r.pending, host)
		att.cancel()
	}
	inst, ok := r.active[host]
	if ok {
		delete(r.active, host)
	}
	r.mu.Unlock()

	if ok && inst.teardown != nil {
		inst.teardown()
	}
}

// OnHostConnected is the hook the component framework calls when a widget
// host enters the document.
func (r *Runtime) OnHostConnected(host *dom.Element, kind string) {
	// Failures are reported through the error handler; the hook has no
	// caller to hand them to.
	_ = r.Mount(host, kind)
}

// OnHostDisconnected is the hook the component framework calls when a
// widget host leaves the document.
func (r *Runtime) OnHostDisconnected(host *dom.Element) {
	r.Unmount(host)
}

// Dispose unmounts every Active Instance and removes the live region.
func (r *Runtime) Dispose() {
	r.mu.Lock()
	hosts := make([]*dom.Element, 0, len(r.active))
	for host := range r.active {
		hosts = append(hosts, host)
	}
	r.mu.Unlock()

	for _, host := range hosts {
		r.Unmount(host)
	}
	r.announcer.Dispose()
}
