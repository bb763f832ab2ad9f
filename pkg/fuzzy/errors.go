package fuzzy

import "errors"

// Configuration errors. Build and NewEngine refuse to construct an engine
// when any of these apply.
var (
	ErrUnknownTerm     = errors.New("unknown term")
	ErrUnknownVariable = errors.New("unknown variable")
	ErrInvalidShape    = errors.New("invalid membership function")
	ErrInvalidDomain   = errors.New("invalid domain")
	ErrEmptyRule       = errors.New("rule has no conditions")
	ErrDuplicateName   = errors.New("duplicate name")
)

// Evaluation errors, returned per call.
var (
	ErrMissingVariable = errors.New("missing input variable")
	ErrNoRuleFired     = errors.New("no rule fired")
)
