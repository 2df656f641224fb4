package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
var ErrNotFound = errors.New("record not found")

// ErrCorruptImage is returned when a stored database image cannot be decoded
// or loaded. Open recovers from it by starting a fresh store.
var ErrCorruptImage = errors.New("corrupt database image")
