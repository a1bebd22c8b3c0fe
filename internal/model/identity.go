package model

// Identity is the verified caller of a store operation.
type Identity struct {
	UserID string
	Email  string
}
