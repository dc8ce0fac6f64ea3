package widgets

import (
	"strings"
	"testing"

	"github.com/go-drift/enhance/pkg/domtest"
)

func TestCounterTransformRequiresTextControl(t *testing.T) {
	h := domtest.NewTester(t)
	host := h.Load(`<div id="host"><p>no control</p></div>`)
	if _, err := (Counter{}).Transform(host); err == nil {
		t.Error("expected structure error without an input or textarea")
	}
}

func TestCounterUpdatesStatusOncePerFrame(t *testing.T) {
	h := domtest.NewTester(t)
	host := h.Load(`<div id="host" data-limit="10"><textarea></textarea></div>`)
	defer mountWidget(h, Counter{}, host)()

	control := h.Query("textarea")
	status := h.Query(".enh-counter-status")

	// A burst of keystrokes within one frame yields a single write holding
	// only the latest value.
	domtest.TypeText(control, "hello")
	if status.Text() != "" {
		t.Fatal("status must not be written before the frame")
	}
	h.Pump()
	if got := status.Text(); got != "5 characters remaining" {
		t.Errorf("status = %q, want 5 characters remaining", got)
	}
	if got := h.Announcer.Region().Text(); got != "5 characters remaining" {
		t.Errorf("live region = %q, want the same message", got)
	}
}

func TestCounterOverLimitMirrorsSynchronously(t *testing.T) {
	h := domtest.NewTester(t)
	host := h.Load(`<div id="host" data-limit="5"><textarea></textarea></div>`)
	defer mountWidget(h, Counter{}, host)()

	control := h.Query("textarea")
	domtest.SetValue(control, "overflowing")
	if host.AttrOr("data-over-limit", "") != "true" {
		t.Error("data-over-limit must be set synchronously with the input event")
	}

	h.Pump()
	if got := h.Query(".enh-counter-status").Text(); got != "6 characters over limit" {
		t.Errorf("status = %q, want 6 characters over limit", got)
	}

	domtest.SetValue(control, "ok")
	if host.HasAttr("data-over-limit") {
		t.Error("dropping under the limit must clear data-over-limit")
	}
}

func TestCounterLiveRegionReplacesText(t *testing.T) {
	h := domtest.NewTester(t)
	host := h.Load(`<div id="host" data-limit="10"><input></div>`)
	defer mountWidget(h, Counter{}, host)()

	control := h.Query(".enh-counter input")
	domtest.SetValue(control, "ab")
	h.Pump()
	domtest.SetValue(control, "abc")
	h.Pump()

	got := h.Announcer.Region().Text()
	if got != "7 characters remaining" {
		t.Errorf("live region = %q, want only the latest message", got)
	}
	if strings.Contains(got, "8 characters") {
		t.Error("live region must replace, never append")
	}
}

func TestCounterUsesConfiguredDefaultLimit(t *testing.T) {
	h := domtest.NewTester(t)
	h.Defaults.Counter.Limit = 4
	host := h.Load(`<div id="host"><input></div>`)
	defer mountWidget(h, Counter{}, host)()

	domtest.SetValue(h.Query(".enh-counter input"), "four")
	h.Pump()
	if got := h.Query(".enh-counter-status").Text(); got != "0 characters remaining" {
		t.Errorf("status = %q, want 0 characters remaining", got)
	}
}
