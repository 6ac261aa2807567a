package types

const ContextUserKey = "user"

const (
	// MaxMessageLength bounds a single chat message in characters.
	MaxMessageLength = 2000
)
