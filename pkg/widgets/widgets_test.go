package widgets

import (
	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/domtest"
	"github.com/go-drift/enhance/pkg/transform"
)

// mountWidget transforms and initializes host with b, failing the test on
// any error. It returns the teardown.
func mountWidget(h *domtest.Tester, b behavior.Behavior, host *dom.Element) behavior.Teardown {
	h.T.Helper()
	tr := transform.NewTransformer()
	if _, err := tr.Apply(host, b); err != nil {
		h.T.Fatalf("transform: %v", err)
	}
	teardown, err := b.Init(host, h.Env())
	if err != nil {
		h.T.Fatalf("init: %v", err)
	}
	return teardown
}
