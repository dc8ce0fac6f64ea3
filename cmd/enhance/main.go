// Command enhance is an inspection tool for the enhance runtime: it applies
// widget transformations to HTML fragments offline so the enhanced markup
// can be reviewed without a host application.
package main

import (
	"os"

	"github.com/go-drift/enhance/cmd/enhance/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
