package common

import "errors"

// ErrUnknownStoreBackend is returned when storage is configured with a
// backend the client does not know.
var ErrUnknownStoreBackend = errors.New("unknown store backend")
