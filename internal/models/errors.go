package models

import "errors"

// Custom errors
var (
	ErrPickNotOnBoard = errors.New("pick is not on the current board")
	ErrInvalidRow     = errors.New("board row is not a JSON object")
)
