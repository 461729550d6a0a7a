// Package clerr wraps internal, non-script faults — an unreadable source
// file, a corrupted history file, anything that is the host environment's
// fault rather than the running script's — with a cause chain, so cmd/clox
// can print "why" instead of just "what". Script-level lexical, compile,
// and runtime errors never pass through here: those stay the plain
// "[line N] Error ..." text pkg/compiler and pkg/vm already write straight
// to stderr.
package clerr

import "github.com/pkg/errors"

// Wrap annotates err with message, preserving err as the cause for
// errors.Cause/errors.Unwrap. Returns nil if err is nil, so call sites can
// write `return clerr.Wrap(err, "...")` unconditionally.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, message)
}

// Wrapf is Wrap with Printf-style formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
