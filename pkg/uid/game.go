package uid

import "github.com/google/uuid"

// GenerateGameID returns a random, URL-safe game identifier.
func GenerateGameID() string {
	return uuid.NewString()
}

// IsGameID reports whether id could have come from GenerateGameID.
func IsGameID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
