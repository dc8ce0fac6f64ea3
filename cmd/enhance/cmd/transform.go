package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/transform"
	"github.com/go-drift/enhance/pkg/widgets"
)

func init() {
	RegisterCommand(&Command{
		Name:  "transform",
		Short: "Apply a widget transformation to an HTML fragment",
		Long: `Read an HTML fragment, transform the selected host element for the
given widget kind, and print the enhanced fragment to stdout.

The fragment is read from --input or stdin. The host defaults to the
fragment's first element; pass --selector to pick another one.`,
		Usage: "enhance transform --kind <widget-kind> [--input file] [--selector css]",
		Run:   runTransform,
	})
}

func runTransform(args []string) error {
	flags := pflag.NewFlagSet("transform", pflag.ContinueOnError)
	kind := flags.String("kind", "", "widget kind to transform for (required)")
	input := flags.String("input", "", "fragment file (default stdin)")
	selector := flags.String("selector", "", "CSS selector for the host element")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *kind == "" {
		return fmt.Errorf("--kind is required (see \"enhance kinds\")")
	}

	markup, err := readInput(*input)
	if err != nil {
		return err
	}

	doc := dom.NewDocument()
	els, err := doc.ParseFragment(string(markup))
	if err != nil {
		return fmt.Errorf("failed to parse fragment: %w", err)
	}
	if len(els) == 0 {
		return fmt.Errorf("fragment contains no elements")
	}
	for _, el := range els {
		doc.Body().AppendChild(el)
	}

	host := els[0]
	if *selector != "" {
		host = doc.Body().Query(*selector)
		if host == nil {
			return fmt.Errorf("no element matches %q", *selector)
		}
	}

	b, err := widgets.Resolve(context.Background(), *kind)
	if err != nil {
		return err
	}
	if _, err := transform.NewTransformer().Apply(host, b); err != nil {
		return err
	}

	for _, el := range els {
		fmt.Println(dom.Render(el))
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
