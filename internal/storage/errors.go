package storage

import "errors"

// ErrDataSourceUnavailable is returned when a data source has no connection
// configuration in this process.
var ErrDataSourceUnavailable = errors.New("data source is not available")
