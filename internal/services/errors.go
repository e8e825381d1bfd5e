package services

import "errors"

var (
	// ErrInvalidScore rejects mood scores outside [1,5].
	ErrInvalidScore = errors.New("mood score must be an integer between 1 and 5")

	// ErrNotFriends rejects chat between users without an accepted friendship.
	ErrNotFriends = errors.New("users are not friends")
)
