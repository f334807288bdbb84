package api

import "errors"

// ErrNoProvider is returned by Install when Env has no selection provider.
var ErrNoProvider = errors.New("no selection provider")
