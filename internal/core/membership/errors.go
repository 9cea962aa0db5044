package membership

import (
	"errors"

	"github.com/ogurasousui/jackisa-office/internal/core/shared"
)

var (
	ErrInvalidID          = errors.New("membership: invalid id")
	ErrInvalidCompanyID   = errors.New("membership: invalid company id")
	ErrInvalidUserID      = errors.New("membership: invalid user id")
	ErrInvalidRole        = errors.New("membership: invalid role")
	ErrInvalidStatus      = errors.New("membership: invalid status")
	ErrInvalidTransition  = errors.New("membership: invalid status transition")
	ErrMembershipNotFound = errors.New("membership: not found")
	ErrCompanyNotFound    = errors.New("membership: company not found")
	ErrAlreadyMember      = errors.New("membership: user already belongs to company")
	ErrNotInvitee         = errors.New("membership: invitation belongs to another user")
	ErrLastOwner          = errors.New("membership: company must keep an active owner")
	ErrForbidden          = errors.New("membership: caller is not allowed to perform this operation")

	ErrInvalidPageSize  = shared.ErrInvalidPageSize
	ErrInvalidPageToken = shared.ErrInvalidPageToken
)
