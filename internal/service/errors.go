package service

import "errors"

var (
	ErrNotFound        = errors.New("error not found")
	ErrAlreadyExists   = errors.New("error already exists")
	ErrSessionNotFound = errors.New("error rebalance session not found")
	ErrValidation      = errors.New("error validation failed")
)
