package errors

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Chain returns the message of err followed by the message of every
// underlying cause, outermost first.
//
// Each entry holds only the text contributed by that level: for *Error the
// Message field, for fmt.Errorf-style wrappers the prefix before ": <cause>".
func Chain(err error) []string {
	var out []string
	for err != nil {
		next := errors.Unwrap(err)
		msg := ownMessage(err, next)
		if msg != "" {
			out = append(out, msg)
		}
		err = next
	}
	return out
}

func ownMessage(err, next error) string {
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	msg := err.Error()
	if next != nil {
		msg = strings.TrimSuffix(msg, ": "+next.Error())
	}
	return msg
}

// Format writes err to w as a command-level failure:
//
//	error: <message>
//
//	because:
//	- <cause>
//	- <cause>
//	backtrace:
//	<frames>
//
// The because section is omitted when err has no causes and the backtrace
// section is omitted when no stack was captured.
func Format(w io.Writer, err error) {
	if err == nil {
		return
	}
	chain := Chain(err)
	if len(chain) == 0 {
		chain = []string{err.Error()}
	}

	fmt.Fprintf(w, "error: %s\n", chain[0])
	for i, cause := range chain[1:] {
		if i == 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "because:")
		}
		fmt.Fprintf(w, "- %s\n", cause)
	}

	if stack := firstStack(err); len(stack) > 0 {
		fmt.Fprintln(w, "backtrace:")
		frames := runtime.CallersFrames(stack)
		for {
			frame, more := frames.Next()
			fmt.Fprintf(w, "  %s\n      at %s:%d\n", frame.Function, frame.File, frame.Line)
			if !more {
				break
			}
		}
	}
}

func firstStack(err error) []uintptr {
	for err != nil {
		if e, ok := err.(*Error); ok && len(e.Stack) > 0 {
			return e.Stack
		}
		err = errors.Unwrap(err)
	}
	return nil
}
