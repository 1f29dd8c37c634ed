package fasta

import "fmt"

// ParseError reports malformed FASTA input.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid FASTA at line %d: %s", e.Line, e.Msg)
}

// DuplicateKeyError reports a title seen twice while building a title-keyed map.
type DuplicateKeyError struct {
	Title string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q", e.Title)
}
