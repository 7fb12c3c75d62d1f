package model

import "errors"

var (
	ErrInvalidPolicy        = errors.New("invalid policy")
	ErrInconsistentSnapshot = errors.New("inconsistent snapshot")
)
