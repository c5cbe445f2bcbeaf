package score

import "errors"

// Structural errors abort the arrangement for the song. ErrEmptySequence is
// the exception: callers receive it alongside a usable full-length rest and
// may continue.
var (
	ErrInvalidTempo         = errors.New("invalid tempo")
	ErrUnknownRole          = errors.New("unknown role")
	ErrMissingRequiredTrack = errors.New("missing required track")
	ErrEmptySequence        = errors.New("empty sequence")
)
