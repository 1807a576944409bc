package domain

import "errors"

var (
	ErrNotFound     = errors.New("task not found")
	ErrNotPersisted = errors.New("task could not be saved")
	ErrNotDestroyed = errors.New("task could not be deleted")
)
