package cue

import "errors"

var (
	// ErrNoCueSheet is returned when no cue sheet exists in the base
	// directory under any of the candidate names.
	ErrNoCueSheet = errors.New("cue: no cue sheet found")
	// ErrNoImage is returned when a cue sheet has no FILE line.
	ErrNoImage = errors.New("cue: cue sheet does not reference an image file")
)
