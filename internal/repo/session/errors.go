package session

import "errors"

// ErrUnknownDriver is returned when the configured store driver is not supported.
var ErrUnknownDriver = errors.New("unknown session store driver")
