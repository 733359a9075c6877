package dataset

import "fmt"

// Load stages reported by LoadError.
const (
	StageFetch  = "fetch"
	StageDecode = "decode"
	StageHeader = "header"
)

// LoadError reports a dataset that could not be fetched or parsed.
type LoadError struct {
	Stage  string
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %q: %s: %v", e.Source, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
