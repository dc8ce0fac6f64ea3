// Package transform upgrades plain declarative markup into the enhanced
// interactive structure a widget behavior expects, and keeps enough
// information to reverse or re-apply the upgrade idempotently.
//
// A transformation is all-or-nothing: the behavior builds the enhanced
// subtree detached, and the host is mutated only once the build succeeded.
// Because the owning component framework may re-render a host's light
// children independently of the runtime's lifecycle, staleness is detected
// with a structural fingerprint of the declarative source rather than by
// assuming permanent ownership of the subtree.
package transform

import (
	"time"

	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/errors"
)

// Marker attributes written onto transformed elements so enhanced state is
// inspectable and re-entrant transformation can detect it.
const (
	// HostMarkerAttr marks a host whose children were transformed.
	HostMarkerAttr = "data-enhance-host"
	// KindMarkerAttr marks the enhanced subtree root with its widget kind.
	KindMarkerAttr = "data-enhance"
	// RestoreMarkerAttr carries the encoded pre-transform attribute
	// snapshot on the host.
	RestoreMarkerAttr = "data-enhance-restore"
)

// Record describes one transformed host.
type Record struct {
	// Host is the transformed host element.
	Host *dom.Element
	// Kind is the widget kind the host was transformed for.
	Kind string
	// OriginalAttrs is the host's attribute snapshot before transforming.
	OriginalAttrs []dom.Attr
	// Source holds detached clones of the declarative children the
	// enhanced subtree was built from.
	Source []*dom.Element
	// Fingerprint is the structural hash of Source.
	Fingerprint Fingerprint
	// Enhanced is the root of the enhanced subtree.
	Enhanced *dom.Element
}

// Transformer owns the host-to-record map for one runtime instance.
type Transformer struct {
	records map[*dom.Element]*Record
}

// NewTransformer creates an empty transformer.
func NewTransformer() *Transformer {
	return &Transformer{records: make(map[*dom.Element]*Record)}
}

// IsTransformed reports whether host currently carries a valid enhanced
// subtree produced by this transformer.
func (t *Transformer) IsTransformed(host *dom.Element) bool {
	rec := t.records[host]
	return rec != nil && rec.Enhanced.Parent() == host && host.HasAttr(HostMarkerAttr)
}

// Record returns the transformation record for host, or nil.
func (t *Transformer) Record(host *dom.Element) *Record {
	return t.records[host]
}

// Apply transforms host for the given behavior and returns the enhanced
// subtree root.
//
// Apply is idempotent: a host whose enhanced subtree is intact and whose
// declarative content is unchanged is returned as-is. If the component
// framework re-rendered the host's light children since the last transform
// (detected via the structural fingerprint), the stale enhanced subtree is
// discarded and rebuilt from the current declarative source.
func (t *Transformer) Apply(host *dom.Element, b behavior.Behavior) (*dom.Element, error) {
	kind := b.Kind()

	if rec := t.records[host]; rec != nil && rec.Kind != kind {
		// A different kind owns the host: reverse the previous
		// transformation first so the new one builds from the original
		// declarative source, not the old enhanced subtree.
		t.Restore(host)
	}

	if rec := t.records[host]; rec != nil && rec.Kind == kind {
		declarative := childrenExcluding(host, rec.Enhanced)
		enhancedIntact := rec.Enhanced.Parent() == host

		if enhancedIntact && len(declarative) == 0 {
			// Untouched since the last transform.
			return rec.Enhanced, nil
		}
		if enhancedIntact && fingerprintOf(declarative) == rec.Fingerprint {
			// The framework re-rendered identical declarative content
			// alongside the enhanced subtree; discard the copies.
			for _, el := range declarative {
				host.RemoveChild(el)
			}
			return rec.Enhanced, nil
		}

		// Content changed or the enhanced subtree was destroyed: expose
		// the current declarative source and rebuild from it.
		if enhancedIntact {
			host.RemoveChild(rec.Enhanced)
		}
		t.restoreAttrs(host, rec)
		delete(t.records, host)
	}

	originalAttrs := host.Attrs()
	source := make([]*dom.Element, 0, len(host.Children()))
	for _, c := range host.Children() {
		source = append(source, c.Clone())
	}

	enhanced, err := b.Transform(host)
	if err != nil {
		werr := &errors.EnhanceError{
			Op:         "transform.Apply",
			Kind:       errors.KindStructure,
			WidgetKind: kind,
			Err:        err,
			Timestamp:  time.Now(),
		}
		errors.Report(werr)
		return nil, werr
	}

	enhanced.SetAttr(KindMarkerAttr, kind)
	host.ReplaceChildren(enhanced)
	host.SetAttr(HostMarkerAttr, "")
	if marker, err := encodeRestoreMarker(kind, originalAttrs); err == nil {
		host.SetAttr(RestoreMarkerAttr, marker)
	}

	rec := &Record{
		Host:          host,
		Kind:          kind,
		OriginalAttrs: originalAttrs,
		Source:        source,
		Fingerprint:   fingerprintOf(source),
		Enhanced:      enhanced,
	}
	t.records[host] = rec
	return enhanced, nil
}

// Restore reverses the transformation: the host gets its original attributes
// back and its declarative children reinstated. It is a no-op for hosts this
// transformer never transformed.
func (t *Transformer) Restore(host *dom.Element) {
	rec := t.records[host]
	if rec == nil {
		return
	}
	children := make([]*dom.Element, len(rec.Source))
	for i, s := range rec.Source {
		children[i] = s.Clone()
	}
	host.ReplaceChildren(children...)
	t.restoreAttrs(host, rec)
	delete(t.records, host)
}

// Forget drops the record for host without touching the DOM. Used when a
// host is discarded wholesale.
func (t *Transformer) Forget(host *dom.Element) {
	delete(t.records, host)
}

// restoreAttrs puts the host's attributes back to their pre-transform state.
func (t *Transformer) restoreAttrs(host *dom.Element, rec *Record) {
	for _, a := range host.Attrs() {
		host.RemoveAttr(a.Name)
	}
	for _, a := range rec.OriginalAttrs {
		host.SetAttr(a.Name, a.Value)
	}
}

// childrenExcluding returns host's children minus the given element.
func childrenExcluding(host *dom.Element, skip *dom.Element) []*dom.Element {
	var out []*dom.Element
	for _, c := range host.Children() {
		if c != skip {
			out = append(out, c)
		}
	}
	return out
}
