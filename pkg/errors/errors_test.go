package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestEnhanceErrorString(t *testing.T) {
	err := &EnhanceError{
		Op:   "transform.Apply",
		Kind: KindStructure,
		Err:  &StructureError{WidgetKind: "enhance-combobox", Reason: "no options"},
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
	if !strings.Contains(got, "structure") {
		t.Errorf("error string %q should contain kind name", got)
	}
}

func TestEnhanceErrorWithWidgetKind(t *testing.T) {
	err := &EnhanceError{
		Op:         "runtime.Mount",
		Kind:       KindResolve,
		WidgetKind: "enhance-dialog",
		Err:        &ResolveError{WidgetKind: "enhance-dialog", Err: errFake},
	}
	got := err.Error()
	want := "widget=enhance-dialog"
	if !strings.Contains(got, want) {
		t.Errorf("error string %q should contain %q", got, want)
	}
}

var errFake = &FocusError{Op: "fake", Reason: "fake"}

func TestErrorKindStrings(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindStructure, "structure"},
		{KindResolve, "resolve"},
		{KindFocus, "focus"},
		{KindDispatch, "dispatch"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"structure", &StructureError{WidgetKind: "x", Reason: "y"}, KindStructure},
		{"resolve", &ResolveError{WidgetKind: "x", Err: errFake}, KindResolve},
		{"focus", &FocusError{Op: "x", Reason: "y"}, KindFocus},
		{"panic", &PanicError{Op: "x", Value: "v"}, KindPanic},
		{"wrapped", fmt.Errorf("mount: %w", &StructureError{WidgetKind: "x", Reason: "y"}), KindStructure},
		{"enhance keeps its kind", &EnhanceError{Op: "x", Kind: KindDispatch, Err: errFake}, KindDispatch},
		{"plain", fmt.Errorf("something else"), KindUnknown},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("%s: KindOf = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResolveErrorUnwrap(t *testing.T) {
	inner := &StructureError{WidgetKind: "x", Reason: "y"}
	err := &ResolveError{WidgetKind: "x", Err: inner}
	if err.Unwrap() != inner {
		t.Error("Unwrap should return the underlying error")
	}
}

type recordingHandler struct {
	errors   []*EnhanceError
	warnings []*EnhanceError
	panics   []*PanicError
}

func (h *recordingHandler) HandleError(err *EnhanceError)   { h.errors = append(h.errors, err) }
func (h *recordingHandler) HandleWarning(err *EnhanceError) { h.warnings = append(h.warnings, err) }
func (h *recordingHandler) HandlePanic(err *PanicError)     { h.panics = append(h.panics, err) }

func TestReportSetsTimestamp(t *testing.T) {
	rec := &recordingHandler{}
	SetHandler(rec)
	defer SetHandler(nil)

	Report(&EnhanceError{Op: "test.op", Kind: KindDispatch, Err: errFake})
	if len(rec.errors) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(rec.errors))
	}
	if rec.errors[0].Timestamp.IsZero() {
		t.Error("Report should fill in a zero timestamp")
	}
}

func TestWarnRoutesToWarningHandler(t *testing.T) {
	rec := &recordingHandler{}
	SetHandler(rec)
	defer SetHandler(nil)

	Warn(&EnhanceError{Op: "focus.Activate", Kind: KindFocus, Err: errFake})
	if len(rec.warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(rec.warnings))
	}
	if len(rec.errors) != 0 {
		t.Errorf("warnings must not be reported as errors, got %d", len(rec.errors))
	}
}

func TestRecoverReportsPanic(t *testing.T) {
	rec := &recordingHandler{}
	SetHandler(rec)
	defer SetHandler(nil)

	func() {
		defer Recover("test.panicking")
		panic("boom")
	}()

	if len(rec.panics) != 1 {
		t.Fatalf("expected 1 panic report, got %d", len(rec.panics))
	}
	if rec.panics[0].Op != "test.panicking" {
		t.Errorf("panic op = %q, want %q", rec.panics[0].Op, "test.panicking")
	}
	if rec.panics[0].Value != "boom" {
		t.Errorf("panic value = %v, want boom", rec.panics[0].Value)
	}
}

func TestPreservedTimestamp(t *testing.T) {
	rec := &recordingHandler{}
	SetHandler(rec)
	defer SetHandler(nil)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	Report(&EnhanceError{Op: "test.op", Kind: KindStructure, Err: errFake, Timestamp: ts})
	if !rec.errors[0].Timestamp.Equal(ts) {
		t.Error("Report must not overwrite a non-zero timestamp")
	}
}
