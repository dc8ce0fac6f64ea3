// Package dom provides the lightweight in-memory document model the enhance
// runtime operates on.
//
// The model deliberately covers only what delegated widget behaviors need:
// an element tree with ordered attributes, three-phase event dispatch
// (capture, target, bubble) following the W3C model, a small CSS selector
// subset for delegation matching, rect geometry for positioning, and an HTML
// bridge for declarative markup.
//
// It is not a browser DOM. There is no layout, no styling, and no script
// surface; geometry is supplied by the embedding environment through
// [Element.SetRect].
//
// All types in this package are single-goroutine: the runtime is cooperative
// and event-loop driven, so dispatch ordering, not locking, is the
// correctness concern.
package dom
