// Command clox is the CLI and REPL front end for the clox bytecode
// interpreter: with no arguments it starts an interactive prompt, with a
// path argument or `run <path>` it executes a script, and `disasm <path>`
// prints a compiled bytecode listing without running it.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagTrace    bool
	flagDebug    bool
	flagSilent   bool
	flagGCStress bool
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitUsage)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "clox [script]",
		Short: "clox is a bytecode interpreter for the Lox scripting language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runFile(args[0])
			}
			return runRepl()
		},
	}
	root.PersistentFlags().BoolVarP(&flagTrace, "trace", "x", false, "log every executed instruction to stderr")
	root.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "print compiled bytecode and exit without running")
	root.PersistentFlags().BoolVarP(&flagSilent, "silent", "s", false, "suppress the REPL prompt")
	root.PersistentFlags().BoolVar(&flagGCStress, "gc-stress", false, "collect garbage before every executed instruction instead of on pressure")

	root.AddCommand(newRunCommand())
	root.AddCommand(newDisasmCommand())
	return root
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <path>",
		Short: "Run a clox script file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0])
		},
	}
}

func newDisasmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <path>",
		Short: "Compile a script and print its bytecode listing without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disasmFile(args[0])
		},
	}
}
