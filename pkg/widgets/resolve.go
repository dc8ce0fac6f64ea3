package widgets

import (
	"context"
	"fmt"

	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/errors"
)

// builtins maps widget kinds to their behavior modules. Behaviors are
// stateless, so the shared instances serve every host.
var builtins = map[string]behavior.Behavior{
	KindDisclosure: Disclosure{},
	KindDialog:     Dialog{},
	KindCombobox:   Combobox{},
	KindDatepicker: Datepicker{},
	KindTooltip:    Tooltip{},
	KindCounter:    Counter{},
}

// Resolve is the built-in behavior resolver. An unknown kind yields a
// *errors.ResolveError; the coordinator treats that as enhancement
// unavailable and leaves the host untouched.
func Resolve(ctx context.Context, kind string) (behavior.Behavior, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errors.ResolveError{WidgetKind: kind, Err: err}
	}
	b, ok := builtins[kind]
	if !ok {
		return nil, &errors.ResolveError{WidgetKind: kind, Err: fmt.Errorf("unknown widget kind")}
	}
	return b, nil
}

// Kinds returns the registered widget kinds in stable order.
func Kinds() []string {
	return []string{
		KindCombobox,
		KindCounter,
		KindDatepicker,
		KindDialog,
		KindDisclosure,
		KindTooltip,
	}
}
