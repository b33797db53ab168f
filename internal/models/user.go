package models

// User represents a registered participant. Users are created once and are
// immutable thereafter; they are referenced by group memberships and expense
// splits.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}
