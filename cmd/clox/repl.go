package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/kristofer/clox/pkg/clerr"
)

const replPrompt = "-> "

// historyPath returns the dotfile clox's REPL persists command history to,
// matching the original interpreter's ~/.alox_history convention.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clox_history"
	}
	return filepath.Join(home, ".clox_history")
}

// runRepl drives an interactive session: each accepted line is compiled and
// run immediately against a single Engine, so globals, classes, and defined
// functions persist across lines the way a real session expects.
func runRepl() error {
	prompt := replPrompt
	if flagSilent {
		prompt = ""
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return clerr.Wrap(err, "starting REPL")
	}
	defer rl.Close()

	eng := newEngine()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		eng.Run(line, os.Stderr)
	}
}
