package uid

import "github.com/google/uuid"

// GenerateMatchID returns a random UUIDv4 string
func GenerateMatchID() string {
	return uuid.NewString()
}

// IsValidMatchID reports whether id parses as a UUID
func IsValidMatchID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
