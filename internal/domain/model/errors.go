package model

import "errors"

var (
	// ErrMalformedPayload marks a webhook body that failed to parse.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrAlreadyExists is returned by NotificationStore.Create when a state
	// is already persisted for the pull request id.
	ErrAlreadyExists = errors.New("notification state already exists")

	// ErrRoomNotFound marks a destination room id that could not be
	// resolved. The reconciler aborts the whole run on it.
	ErrRoomNotFound = errors.New("room not found")

	// ErrFetchReviews marks a failed review fetch from the upstream API.
	ErrFetchReviews = errors.New("fetch reviews failed")
)
