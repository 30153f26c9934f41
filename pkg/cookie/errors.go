package cookie

import "errors"

// Errors.
var (
	ErrNoSecret  = errors.New("cookie: secret required")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrDecrypt   = errors.New("cookie: decryption failed")
)
