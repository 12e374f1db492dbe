package profile

import "errors"

var ErrNoProfile = errors.New("no profile in session")
