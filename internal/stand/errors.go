package stand

import "errors"

var (
	ErrNotFound         = errors.New("stand not found")
	ErrDuplicateVariant = errors.New("duplicate variant in assignment list")
)
