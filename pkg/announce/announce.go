// Package announce throttles assistive-technology announcements through a
// shared live region.
package announce

import (
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/schedule"
)

// Announcer coalesces announcements into at most one live-region write per
// animation frame. The region's text is replaced, never appended, so screen
// readers announce only the latest value.
type Announcer struct {
	region   *dom.Element
	throttle *schedule.FrameThrottle
}

// New creates an announcer and appends its polite live region to the
// document body.
func New(doc *dom.Document, frames schedule.Frames) *Announcer {
	region := doc.CreateElement("div")
	region.SetAttr("class", "enh-live-region")
	region.SetAttr("role", "status")
	region.SetAttr("aria-live", "polite")
	doc.Body().AppendChild(region)
	return &Announcer{
		region:   region,
		throttle: schedule.NewFrameThrottle(frames),
	}
}

// Region returns the live region element.
func (a *Announcer) Region() *dom.Element {
	return a.region
}

// Announce schedules text to be written to the live region on the next
// frame. When called repeatedly within one frame only the latest text is
// written.
func (a *Announcer) Announce(text string) {
	a.throttle.Schedule(func() {
		a.region.SetText(text)
	})
}

// Clear empties the live region immediately and drops any pending write.
func (a *Announcer) Clear() {
	a.throttle.Cancel()
	a.region.SetText("")
}

// Dispose removes the live region from the document.
func (a *Announcer) Dispose() {
	a.throttle.Cancel()
	a.region.Detach()
}
