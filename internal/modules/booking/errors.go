package booking

import "errors"

var ErrCarNotFound = errors.New("car not found")
