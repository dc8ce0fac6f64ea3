package transform

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"

	"github.com/go-drift/enhance/pkg/dom"
)

// Fingerprint is a cheap structural hash of a host's declarative children,
// used to decide whether a re-connected host needs re-transformation.
type Fingerprint [32]byte

// String returns the fingerprint as hex for diagnostics.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// fingerprintOf hashes the serialized markup of the given elements in order.
// Serialization includes tag names, attributes and text, so any structural
// change the component framework makes to the declarative source changes
// the fingerprint.
func fingerprintOf(els []*dom.Element) Fingerprint {
	h := blake3.New()
	for _, el := range els {
		h.WriteString(dom.Render(el))
		h.WriteString("\x00")
	}
	var f Fingerprint
	h.Digest().Read(f[:])
	return f
}

// restoreMarker is the payload encoded into the host's restore attribute so
// the pre-transform state survives serialization of the enhanced tree.
type restoreMarker struct {
	Kind  string     `msgpack:"kind"`
	Attrs [][2]string `msgpack:"attrs"`
}

// encodeRestoreMarker packs the original attribute snapshot into a compact
// attribute-safe string.
func encodeRestoreMarker(kind string, attrs []dom.Attr) (string, error) {
	m := restoreMarker{Kind: kind}
	for _, a := range attrs {
		m.Attrs = append(m.Attrs, [2]string{a.Name, a.Value})
	}
	packed, err := msgpack.Marshal(m)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(packed), nil
}

// DecodeRestoreMarker unpacks a restore attribute written by a previous
// transformation, returning the widget kind and original attributes. It lets
// tooling (and a future runtime instance) reverse an enhancement it did not
// perform itself.
func DecodeRestoreMarker(marker string) (kind string, attrs []dom.Attr, err error) {
	packed, err := base64.StdEncoding.DecodeString(marker)
	if err != nil {
		return "", nil, err
	}
	var m restoreMarker
	if err := msgpack.Unmarshal(packed, &m); err != nil {
		return "", nil, err
	}
	for _, pair := range m.Attrs {
		attrs = append(attrs, dom.Attr{Name: pair[0], Value: pair[1]})
	}
	return m.Kind, attrs, nil
}
