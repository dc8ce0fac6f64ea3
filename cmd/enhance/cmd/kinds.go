package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/go-drift/enhance/pkg/widgets"
)

func init() {
	RegisterCommand(&Command{
		Name:  "kinds",
		Short: "List the registered widget kinds",
		Usage: "enhance kinds [--verbose]",
		Run:   runKinds,
	})
}

// kindSummaries describes each built-in kind for --verbose output.
var kindSummaries = map[string]string{
	widgets.KindCombobox:   "searchable dropdown with debounced filtering",
	widgets.KindCounter:    "bounded character counter with live-region updates",
	widgets.KindDatepicker: "month-grid calendar with min/max bounds",
	widgets.KindDialog:     "modal dialog with focus trap and scroll lock",
	widgets.KindDisclosure: "toggleable sections, multi- or single-select",
	widgets.KindTooltip:    "delayed floating tooltip with collision handling",
}

func runKinds(args []string) error {
	flags := pflag.NewFlagSet("kinds", pflag.ContinueOnError)
	verbose := flags.BoolP("verbose", "v", false, "include a short description per kind")
	if err := flags.Parse(args); err != nil {
		return err
	}

	for _, kind := range widgets.Kinds() {
		if *verbose {
			fmt.Printf("%-22s %s\n", kind, kindSummaries[kind])
		} else {
			fmt.Println(kind)
		}
	}
	return nil
}
