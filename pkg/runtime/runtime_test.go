package runtime

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/domtest"
	"github.com/go-drift/enhance/pkg/errors"
	"github.com/go-drift/enhance/pkg/widgets"
)

const hostMarkup = `<div id="host">` +
	`<section><h3>A</h3><p>Alpha</p></section>` +
	`<section><h3>B</h3><p>Beta</p></section>` +
	`</div>`

func newRuntime(t *testing.T, opts Options) (*Runtime, *dom.Document) {
	t.Helper()
	doc := dom.NewDocument()
	if opts.Frames == nil {
		opts.Frames = domtest.NewManualFrames()
	}
	if opts.Clock == nil {
		opts.Clock = domtest.NewFakeClock()
	}
	r := New(doc, opts)
	t.Cleanup(r.Dispose)
	return r, doc
}

func loadHost(t *testing.T, doc *dom.Document, markup string) *dom.Element {
	t.Helper()
	els, err := doc.ParseFragment(markup)
	if err != nil {
		t.Fatal(err)
	}
	doc.Body().AppendChild(els[0])
	return els[0]
}

func TestMountEnhancesHost(t *testing.T) {
	r, doc := newRuntime(t, Options{})
	host := loadHost(t, doc, hostMarkup)

	if err := r.Mount(host, widgets.KindDisclosure); err != nil {
		t.Fatal(err)
	}
	if !r.IsMounted(host) || r.ActiveCount() != 1 {
		t.Error("mount should record one active instance")
	}
	if !r.Transformer().IsTransformed(host) {
		t.Error("mount should transform the host")
	}
	if n := r.Events().HandlerCount(host, "click"); n != 1 {
		t.Errorf("click handlers = %d, want 1", n)
	}
}

func TestDoubleMountIsSilentNoOp(t *testing.T) {
	r, doc := newRuntime(t, Options{})
	host := loadHost(t, doc, hostMarkup)

	if err := r.Mount(host, widgets.KindDisclosure); err != nil {
		t.Fatal(err)
	}
	rendered := dom.Render(host)

	if err := r.Mount(host, widgets.KindDisclosure); err != nil {
		t.Fatalf("double mount must not fail: %v", err)
	}
	if r.ActiveCount() != 1 {
		t.Errorf("active = %d, want exactly one instance", r.ActiveCount())
	}
	if n := r.Events().HandlerCount(host, "click"); n != 1 {
		t.Errorf("click handlers = %d, double mount must not duplicate listeners", n)
	}
	if dom.Render(host) != rendered {
		t.Error("double mount must not touch the DOM")
	}
}

func TestMountUnmountMountCycle(t *testing.T) {
	r, doc := newRuntime(t, Options{})
	host := loadHost(t, doc, hostMarkup)

	baseline := r.Events().HandlerCount(host, "click")
	if err := r.Mount(host, widgets.KindDisclosure); err != nil {
		t.Fatal(err)
	}
	firstRender := dom.Render(host)

	r.Unmount(host)
	if r.IsMounted(host) {
		t.Fatal("unmount should drop the instance")
	}
	if n := r.Events().HandlerCount(host, "click"); n != baseline {
		t.Errorf("handlers after unmount = %d, want baseline %d", n, baseline)
	}

	if err := r.Mount(host, widgets.KindDisclosure); err != nil {
		t.Fatal(err)
	}
	if n := r.Events().HandlerCount(host, "click"); n != 1 {
		t.Errorf("handlers after remount = %d, want 1", n)
	}
	if got := dom.Render(host); got != firstRender {
		t.Errorf("remounted DOM differs from the first mount:\n%s\nvs\n%s", got, firstRender)
	}
}

func TestDoubleUnmountIsSilentNoOp(t *testing.T) {
	teardowns := 0
	r, doc := newRuntime(t, Options{Resolver: countingTeardownResolver(&teardowns)})
	host := loadHost(t, doc, hostMarkup)

	if err := r.Mount(host, "fake"); err != nil {
		t.Fatal(err)
	}
	r.Unmount(host)
	r.Unmount(host)
	if teardowns != 1 {
		t.Errorf("teardown ran %d times, want exactly once", teardowns)
	}
}

func TestResolveFailureLeavesHostPristine(t *testing.T) {
	errors.SetHandler(&discardHandler{})
	defer errors.SetHandler(nil)

	resolver := func(ctx context.Context, kind string) (behavior.Behavior, error) {
		return nil, &errors.ResolveError{WidgetKind: kind, Err: fmt.Errorf("module missing")}
	}
	r, doc := newRuntime(t, Options{Resolver: resolver})
	host := loadHost(t, doc, hostMarkup)
	before := dom.Render(host)

	if err := r.Mount(host, "enhance-disclosure"); err == nil {
		t.Fatal("expected resolve failure")
	}
	if dom.Render(host) != before {
		t.Error("resolve failure must leave the host untouched")
	}
	if r.ActiveCount() != 0 {
		t.Error("no instance may exist after a failed mount")
	}
}

func TestStructureFailureLeavesHostPristine(t *testing.T) {
	errors.SetHandler(&discardHandler{})
	defer errors.SetHandler(nil)

	r, doc := newRuntime(t, Options{})
	host := loadHost(t, doc, `<div id="host"><p>not a disclosure</p></div>`)
	before := dom.Render(host)

	if err := r.Mount(host, widgets.KindDisclosure); err == nil {
		t.Fatal("expected structure failure")
	}
	if dom.Render(host) != before {
		t.Error("structure failure must leave the host untouched")
	}
	if r.Events().HandlerCount(host, "click") != 0 {
		t.Error("no handlers may be registered after a failed mount")
	}
}

func TestInitFailureReportsUnderlyingKind(t *testing.T) {
	rec := &recordingHandler{}
	errors.SetHandler(rec)
	defer errors.SetHandler(nil)

	cause := &errors.FocusError{Op: "focus.Activate", Reason: "no focusable descendants"}
	resolver := func(ctx context.Context, kind string) (behavior.Behavior, error) {
		return initErrBehavior{err: cause}, nil
	}
	r, doc := newRuntime(t, Options{Resolver: resolver})
	host := loadHost(t, doc, hostMarkup)
	before := dom.Render(host)

	if err := r.Mount(host, widgets.KindDisclosure); err == nil {
		t.Fatal("expected init failure")
	}
	if len(rec.reported) != 1 {
		t.Fatalf("reported %d errors, want 1", len(rec.reported))
	}
	if got := rec.reported[0].Kind; got != errors.KindFocus {
		t.Errorf("reported kind = %v, want %v from the underlying cause", got, errors.KindFocus)
	}
	if dom.Render(host) != before {
		t.Error("init failure must leave the host untouched")
	}
}

func TestUnmountSupersedesInFlightMount(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	resolver := func(ctx context.Context, kind string) (behavior.Behavior, error) {
		close(entered)
		<-release
		return widgets.Disclosure{}, nil
	}

	r, doc := newRuntime(t, Options{Resolver: resolver})
	host := loadHost(t, doc, hostMarkup)

	done := make(chan error, 1)
	go func() { done <- r.Mount(host, widgets.KindDisclosure) }()

	<-entered
	r.Unmount(host)
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("superseded mount should abort silently, got %v", err)
	}

	if r.ActiveCount() != 0 {
		t.Error("superseded mount must not leave an instance")
	}
	if n := r.Events().HandlerCount(host, "click"); n != 0 {
		t.Errorf("superseded mount leaked %d handlers", n)
	}
	if r.Transformer().IsTransformed(host) {
		t.Error("superseded mount must not transform the host")
	}
}

func TestModuleResolutionIsCachedPerKind(t *testing.T) {
	calls := 0
	resolver := func(ctx context.Context, kind string) (behavior.Behavior, error) {
		calls++
		return widgets.Disclosure{}, nil
	}
	r, doc := newRuntime(t, Options{Resolver: resolver})

	a := loadHost(t, doc, hostMarkup)
	b := loadHost(t, doc, `<div id="h2"><section><h3>X</h3><p>Y</p></section></div>`)
	if err := r.Mount(a, widgets.KindDisclosure); err != nil {
		t.Fatal(err)
	}
	if err := r.Mount(b, widgets.KindDisclosure); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("resolver ran %d times, want once per kind", calls)
	}
}

func TestPanickingInitIsIsolated(t *testing.T) {
	errors.SetHandler(&discardHandler{})
	defer errors.SetHandler(nil)

	resolver := func(ctx context.Context, kind string) (behavior.Behavior, error) {
		return panicBehavior{}, nil
	}
	r, doc := newRuntime(t, Options{Resolver: resolver})
	host := loadHost(t, doc, hostMarkup)
	before := dom.Render(host)

	if err := r.Mount(host, "panicky"); err == nil {
		t.Fatal("expected error from a panicking behavior")
	}
	if dom.Render(host) != before {
		t.Error("a panicking behavior must leave the host restored")
	}
	if r.ActiveCount() != 0 {
		t.Error("no instance may survive a panicking init")
	}
}

func TestLifecycleHooksDelegate(t *testing.T) {
	r, doc := newRuntime(t, Options{})
	host := loadHost(t, doc, hostMarkup)

	r.OnHostConnected(host, widgets.KindDisclosure)
	if !r.IsMounted(host) {
		t.Error("OnHostConnected should mount")
	}
	r.OnHostDisconnected(host)
	if r.IsMounted(host) {
		t.Error("OnHostDisconnected should unmount")
	}
}

// panicBehavior panics inside Init to exercise the mount failure boundary.
type panicBehavior struct{}

func (panicBehavior) Kind() string { return "panicky" }

func (panicBehavior) Transform(host *dom.Element) (*dom.Element, error) {
	root := host.Document().CreateElement("div")
	root.AddClass("enh-panicky")
	return root, nil
}

func (panicBehavior) Init(*dom.Element, behavior.Env) (behavior.Teardown, error) {
	panic("wiring exploded")
}

// countingTeardownResolver resolves a trivial behavior whose teardown
// increments the counter.
func countingTeardownResolver(teardowns *int) behavior.Resolver {
	return func(ctx context.Context, kind string) (behavior.Behavior, error) {
		return countedBehavior{teardowns: teardowns}, nil
	}
}

type countedBehavior struct {
	teardowns *int
}

func (countedBehavior) Kind() string { return "fake" }

func (countedBehavior) Transform(host *dom.Element) (*dom.Element, error) {
	root := host.Document().CreateElement("div")
	root.AddClass("enh-fake")
	return root, nil
}

func (b countedBehavior) Init(*dom.Element, behavior.Env) (behavior.Teardown, error) {
	return func() { *b.teardowns++ }, nil
}

// initErrBehavior transforms like a disclosure but fails Init with a fixed
// error.
type initErrBehavior struct {
	widgets.Disclosure
	err error
}

func (b initErrBehavior) Init(*dom.Element, behavior.Env) (behavior.Teardown, error) {
	return nil, b.err
}

type discardHandler struct{}

func (discardHandler) HandleError(*errors.EnhanceError)   {}
func (discardHandler) HandleWarning(*errors.EnhanceError) {}
func (discardHandler) HandlePanic(*errors.PanicError)     {}

type recordingHandler struct {
	reported []*errors.EnhanceError
}

func (h *recordingHandler) HandleError(e *errors.EnhanceError)   { h.reported = append(h.reported, e) }
func (h *recordingHandler) HandleWarning(e *errors.EnhanceError) {}
func (h *recordingHandler) HandlePanic(e *errors.PanicError)     {}
