package charter

import "fmt"

// ParseError indicates text was obtained from a source but the required
// content was absent, for example an empty recap or template.
type ParseError struct {
	Source string // "template" or "recap"
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Source, e.Reason)
}

// GenerationError wraps any stage failure during a generation request so
// callers see a single failure mode regardless of which stage broke.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("charter party generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
