package mapper

import (
	"errors"
	"strings"
)

// ErrWildcardTarget is returned when a wildcard option is mapped to a key
// without a wildcard placeholder
var ErrWildcardTarget = errors.New("attempted to map a wildcard option to a non-wildcard option")

// PropertyError reports an invalid option value. The message names the
// option the way the user supplied it.
type PropertyError struct {
	// Key is the option key the error is about, if known
	Key     string
	Message string
}

func (e *PropertyError) Error() string {
	return e.Message
}

func newPropertyError(key string, messages ...string) *PropertyError {
	return &PropertyError{Key: key, Message: strings.Join(messages, ".\n")}
}
