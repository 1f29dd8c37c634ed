package vcf

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotOpen is returned by line operations on a Stream that has not been
// opened in the matching mode.
var ErrNotOpen = errors.New("vcf stream not open")

// ParseError reports a data line that cannot be turned into a Record.
// It is always fatal for the line; callers decide whether to stop.
type ParseError struct {
	Line  int    // 1-based line number, 0 when parsing a detached line
	Field string // column name, e.g. "POS"
	Value string // offending text
	Err   error  // underlying cause, may be nil
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError reports a stream that cannot be used as requested: an
// unsupported file extension or open mode. It is raised before any I/O.
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return "vcf: " + e.Reason
	}
	return fmt.Sprintf("vcf %s: %s", e.Path, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func errColumnCount(n int) error {
	return errors.Errorf("got %d columns, need at least %d", n, mandatoryColumns)
}

func errSampleCount(values, names int) error {
	return errors.Errorf("%d sample columns for %d sample names", values, names)
}

func errFormatCount(values, keys int) error {
	return errors.Errorf("%d values for %d FORMAT keys", values, keys)
}
