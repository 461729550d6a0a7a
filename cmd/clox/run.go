package main

import (
	"fmt"
	"os"

	"github.com/kristofer/clox/internal/diag"
	"github.com/kristofer/clox/pkg/clerr"
	"github.com/kristofer/clox/pkg/engine"
)

// exit codes follow the sysexits.h convention the original interpreter used:
// 65 data/compile error, 70 internal/runtime error, 74 I/O error.
const (
	exitOK       = 0
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
	exitUsage    = 64
)

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", clerr.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}

func newEngine() *engine.Engine {
	eng := engine.New(os.Stdout, os.Stderr, os.Stdin)
	if flagTrace {
		logger := diag.New(os.Stderr, true)
		eng.SetTraceLogger(logger.Tracef)
	}
	if flagGCStress {
		eng.SetGCStressMode(true)
	}
	return eng
}

func runFile(path string) error {
	source, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clox: %v\n", err)
		os.Exit(exitIOErr)
	}

	eng := newEngine()

	if flagDebug {
		if !eng.Disassemble(source, os.Stderr, os.Stdout) {
			os.Exit(exitDataErr)
		}
		return nil
	}

	switch eng.Run(source, os.Stderr) {
	case engine.ResultCompileError:
		os.Exit(exitDataErr)
	case engine.ResultRuntimeError:
		os.Exit(exitSoftware)
	}
	return nil
}

func disasmFile(path string) error {
	source, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clox: %v\n", err)
		os.Exit(exitIOErr)
	}

	eng := newEngine()
	if !eng.Disassemble(source, os.Stderr, os.Stdout) {
		os.Exit(exitDataErr)
	}
	return nil
}
