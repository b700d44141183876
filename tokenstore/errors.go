package tokenstore

import "errors"

var (
	ErrNoToken             = errors.New("no token stored")
	ErrIncompleteTokenPair = errors.New("access and refresh tokens must be set together")
)
