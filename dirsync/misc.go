package dirsync

import (
	"errors"
)

var (
	ErrNotFound     = errors.New("no result found")
	ErrDuplicate    = errors.New("already exists")
	ErrAmbiguous    = errors.New("multiple results where one was expected")
	ErrUnsafeChange = errors.New("attribute is not safe to change")
)
