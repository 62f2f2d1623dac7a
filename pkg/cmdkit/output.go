// SPDX-License-Identifier: MPL-2.0

package cmdkit

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// OutputWrapper is the command output sink: an io.Writer with smart line
// ending handling and optional styling. The framework writes each non-empty
// execution result and every error report through a wrapper exactly once;
// it never buffers or reformats beyond that.
type OutputWrapper struct {
	w         io.Writer
	ending    string
	styleFunc func(string) string
}

// NewOutputWrapper wraps w with the default "\n" ending and no styling.
func NewOutputWrapper(w io.Writer) *OutputWrapper {
	return &OutputWrapper{w: w, ending: "\n"}
}

// SetEnding replaces the line ending appended to messages. An empty ending
// disables appending entirely.
func (o *OutputWrapper) SetEnding(ending string) { o.ending = ending }

// SetStyleFunc installs a default style applied to every written message.
// The style only takes effect when the destination is a terminal; otherwise
// it is cleared so piped output stays plain.
func (o *OutputWrapper) SetStyleFunc(f func(string) string) {
	if f != nil && o.IsTTY() {
		o.styleFunc = f
	} else {
		o.styleFunc = nil
	}
}

// IsTTY reports whether the underlying writer is a terminal.
func (o *OutputWrapper) IsTTY() bool {
	f, ok := o.w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Write writes msg, appending the configured ending when absent and applying
// the wrapper's style function, if any.
func (o *OutputWrapper) Write(msg string) {
	o.write(msg, o.styleFunc)
}

// WriteWith writes msg styled with f, falling back to the wrapper's own
// style function when f is nil.
func (o *OutputWrapper) WriteWith(f func(string) string, msg string) {
	if f == nil {
		f = o.styleFunc
	}
	o.write(msg, f)
}

func (o *OutputWrapper) write(msg string, f func(string) string) {
	if o.ending != "" && !strings.HasSuffix(msg, o.ending) {
		msg += o.ending
	}
	if f != nil {
		msg = f(msg)
	}
	_, _ = io.WriteString(o.w, msg)
}

// Flush flushes the underlying writer when it supports flushing.
func (o *OutputWrapper) Flush() {
	if f, ok := o.w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}

// Writer returns the wrapped io.Writer.
func (o *OutputWrapper) Writer() io.Writer { return o.w }
