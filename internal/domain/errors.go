package domain

import "errors"

var (
	// ErrPackNotFound indicates the game pack could not be loaded.
	ErrPackNotFound = errors.New("game pack not found")
	// ErrBadAuthCode is returned when a reconnecting client presents an
	// unknown or expired auth code.
	ErrBadAuthCode = errors.New("unknown or expired auth code")
)
