package stock

import "errors"

var (
	// ErrVariantNotFound reports an adjustment against an unknown variant.
	ErrVariantNotFound = errors.New("variant not found")

	// ErrConflict reports that the variant's quantity changed between the
	// read and the conditional write after all retries.
	ErrConflict = errors.New("variant quantity conflict")
)
