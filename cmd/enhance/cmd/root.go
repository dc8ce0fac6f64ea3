// Package cmd implements the enhance CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (transform, kinds).
package cmd

import (
	"fmt"
	"os"
)

// Version is set at build time.
var Version = "0.1.0-dev"

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(args []string) error
}

// commands holds the registered subcommands.
var commands = make(map[string]*Command)

// order preserves registration order for help output.
var order []*Command

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	order = append(order, cmd)
}

// Execute runs the CLI with the given arguments.
func Execute() error {
	args := os.Args[1:]
	if len(args) == 0 {
		printHelp()
		return nil
	}

	switch args[0] {
	case "-h", "--help", "help":
		printHelp()
		return nil
	case "-v", "--version", "version":
		fmt.Printf("enhance version %s\n", Version)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printHelp()
		return fmt.Errorf("unknown command: %s", args[0])
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	if err := cmd.Run(cmdArgs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func printHelp() {
	fmt.Println("enhance - inspect widget DOM transformations")
	fmt.Println()
	fmt.Println("Usage: enhance <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	for _, cmd := range order {
		fmt.Printf("  %-12s %s\n", cmd.Name, cmd.Short)
	}
	fmt.Println()
	fmt.Println(`Use "enhance <command> --help" for more information about a command.`)
}

func printCommandHelp(cmd *Command) {
	fmt.Println(cmd.Short)
	fmt.Println()
	if cmd.Long != "" {
		fmt.Println(cmd.Long)
		fmt.Println()
	}
	fmt.Printf("Usage: %s\n", cmd.Usage)
}
