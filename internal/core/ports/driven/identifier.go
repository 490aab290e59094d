package driven

// IDGenerator produces unique document identifiers.
type IDGenerator interface {
	// NewID returns a collision-resistant lowercase identifier.
	// It is used verbatim as the file name stem of both artifacts.
	NewID() string
}
