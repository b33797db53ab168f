package models

// Group represents a set of users sharing expenses.
// Membership is append-only: members can be added but never removed, so an
// expense's shares always reference live members.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// MemberIDs lists the member user IDs in insertion order. Insertion
	// order is display-only; balance math never depends on it.
	MemberIDs []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is a member of the group.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
