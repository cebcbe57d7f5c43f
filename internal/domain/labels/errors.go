package labels

import "errors"

var (
	ErrNoEntries       = errors.New("no label entries supplied")
	ErrInvalidTemplate = errors.New("invalid label template")
	ErrUnknownTemplate = errors.New("unknown label template")
	ErrPageOutOfRange  = errors.New("page out of range")
)
