package listing

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrAlreadyReviewed = errors.New("listing already reviewed")
	ErrReasonRequired  = errors.New("rejection reason is required")
	ErrReasonTooLong   = errors.New("rejection reason is too long")
	ErrForbidden       = errors.New("insufficient permissions for this listing")
	ErrInvalidListing  = errors.New("invalid listing data")
	ErrTooManyImages   = errors.New("image limit reached")
	ErrImageNotFound   = errors.New("image not attached to this listing")
)
