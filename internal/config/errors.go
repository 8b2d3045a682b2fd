package config

import "errors"

// Loading and validation failures wrap one of these.
var (
	ErrInvalidConfig = errors.New("jumpboard config is invalid")
	ErrLoadConfig    = errors.New("jumpboard config could not be read")
)
