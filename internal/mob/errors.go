package mob

import "errors"

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrMobNotFound   = errors.New("mob not found or has ended")
	ErrAlreadyJoined = errors.New("you are already in this mob")
)
