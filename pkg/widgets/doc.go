// Package widgets contains the built-in widget behavior modules and the
// resolver that maps widget kinds to them.
//
// Each behavior is a stateless strategy struct; per-mount interaction state
// lives in the closure returned from Init, so one behavior instance can
// serve any number of hosts. Enhanced subtrees use documented enh-* classes
// and data-* markers so the transformation is inspectable from the outside.
package widgets
