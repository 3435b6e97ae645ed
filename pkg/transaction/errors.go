package transaction

import "errors"

// Sentinel error kinds returned by the builder and high-level constructors.
// Callers should use errors.Is against these, not string matching.
var (
	// ErrInvalidRange is returned when a Range falls outside a document's
	// data, or is otherwise not usable for the requested operation.
	ErrInvalidRange = errors.New("transaction: invalid range")

	// ErrInvalidAttributeTarget is returned when an attribute change is
	// requested at an offset that is not an opening element marker.
	ErrInvalidAttributeTarget = errors.New("transaction: attribute changes apply only to opening element markers")

	// ErrMetadataBounds is returned when a metadata operation's retain count
	// would step past the metadata stream's cell count.
	ErrMetadataBounds = errors.New("transaction: metadata operation out of bounds")

	// ErrEmptyMetadata is returned when replaceMetadata is asked to replace
	// a cell with itself (a true no-op the builder refuses to encode).
	ErrEmptyMetadata = errors.New("transaction: metadata replacement has no effect")

	// ErrNegativeRetain is returned when a retain length would be negative.
	ErrNegativeRetain = errors.New("transaction: retain length must not be negative")

	// ErrUnwrapMismatch is returned when newFromWrap is asked to unwrap
	// element markers that do not match the types it was told to expect.
	ErrUnwrapMismatch = errors.New("transaction: unwrap type does not match document")

	// ErrReplaceAfterReplaceMetadata is returned when a builder is asked to
	// push a data replace operation immediately after a metadata replace at
	// the same offset; the two axes must be separated by at least a retain
	// so replay stays unambiguous.
	ErrReplaceAfterReplaceMetadata = errors.New("transaction: replace cannot directly follow replaceMetadata at the same offset")
)
