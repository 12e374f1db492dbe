package dashboard

import "errors"

var ErrInvalidPeriod = errors.New("invalid analytics period")
