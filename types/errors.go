package types

import "github.com/pkg/errors"

var (
	// ErrMissingField is wrapped by every read that reaches a field, or a
	// referenced entry, the cache does not hold. The wrapping message always
	// starts with "Can't find field".
	ErrMissingField = errors.New("field not found in cache")

	// ErrMissingTypename is returned when fragment data is written without a
	// __typename to route it.
	ErrMissingTypename = errors.New("missing __typename")

	// ErrFragmentNotObject is returned when fragment data is not an object.
	ErrFragmentNotObject = errors.New("fragment data must be an object")
)

// MissingFieldMessage is the text every missing-field failure carries.
const MissingFieldMessage = "Can't find field"
