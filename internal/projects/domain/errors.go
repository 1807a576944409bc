package domain

import "errors"

var (
	ErrNotFound     = errors.New("project not found")
	ErrNotPersisted = errors.New("project could not be saved")
	ErrNotDestroyed = errors.New("project could not be deleted")
)
