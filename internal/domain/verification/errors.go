package verification

import "errors"

var (
	ErrRequestNotFound = errors.New("verification request not found")
	ErrAlreadyReviewed = errors.New("verification request already reviewed")
	ErrReasonRequired  = errors.New("rejection reason is required")
	ErrReasonTooLong   = errors.New("rejection reason is too long")
)
