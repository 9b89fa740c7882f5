package lead

import "errors"

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrInvalidPhone     = errors.New("phone number must contain 10 to 15 digits")
	ErrInvalidStatus    = errors.New("invalid lead status")
	ErrInvalidPriority  = errors.New("invalid lead priority")
	ErrForbidden        = errors.New("not the assignee of this lead")
	ErrAssigneeNotFound = errors.New("assignee does not exist")
	ErrNotAssigned      = errors.New("lead is not assigned")
)
