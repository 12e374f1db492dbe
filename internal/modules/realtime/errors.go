package realtime

import "errors"

var (
	ErrUnknownQuery = errors.New("unknown query")
	ErrNotAllowed   = errors.New("query not allowed for this session")
	ErrHubClosed    = errors.New("realtime hub closed")
)
