package catalog

// Owns is the single ownership predicate used by every mutating operation.
// An empty actor never owns anything.
func Owns(actorID, ownerID string) bool {
	return actorID != "" && actorID == ownerID
}
