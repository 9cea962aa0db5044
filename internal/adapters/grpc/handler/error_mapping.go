package handler

import (
	"errors"

	"github.com/ogurasousui/jackisa-office/internal/core/company"
	"github.com/ogurasousui/jackisa-office/internal/core/grading"
	"github.com/ogurasousui/jackisa-office/internal/core/membership"
	"github.com/ogurasousui/jackisa-office/internal/core/paye"
	"github.com/ogurasousui/jackisa-office/internal/core/profile"
	"github.com/ogurasousui/jackisa-office/internal/core/shared"
	"github.com/ogurasousui/jackisa-office/internal/core/tenancy"
	"github.com/ogurasousui/jackisa-office/internal/core/workday"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tenancy.ErrUnauthenticated), errors.Is(err, tenancy.ErrNoPrincipal):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, tenancy.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, tenancy.ErrNotAMember),
		errors.Is(err, membership.ErrNotInvitee),
		errors.Is(err, membership.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, shared.ErrInvalidPageSize),
		errors.Is(err, shared.ErrInvalidPageToken),
		errors.Is(err, paye.ErrInvalidGrossSalary),
		errors.Is(err, tenancy.ErrInvalidCompanyID),
		errors.Is(err, company.ErrInvalidName),
		errors.Is(err, company.ErrInvalidCode),
		errors.Is(err, company.ErrInvalidStatus),
		errors.Is(err, company.ErrInvalidID),
		errors.Is(err, company.ErrInvalidCountry),
		errors.Is(err, company.ErrInvalidCurrency),
		errors.Is(err, membership.ErrInvalidID),
		errors.Is(err, membership.ErrInvalidCompanyID),
		errors.Is(err, membership.ErrInvalidUserID),
		errors.Is(err, membership.ErrInvalidRole),
		errors.Is(err, membership.ErrInvalidStatus),
		errors.Is(err, profile.ErrInvalidEmail),
		errors.Is(err, profile.ErrInvalidDisplayName),
		errors.Is(err, profile.ErrInvalidUserID),
		errors.Is(err, workday.ErrInvalidRange),
		errors.Is(err, workday.ErrOffsetOutOfRange),
		errors.Is(err, grading.ErrInvalidScore):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, membership.ErrInvalidTransition),
		errors.Is(err, membership.ErrLastOwner),
		errors.Is(err, company.ErrCompanyInUse):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, company.ErrCodeAlreadyExists),
		errors.Is(err, membership.ErrAlreadyMember),
		errors.Is(err, profile.ErrEmailAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, company.ErrCompanyNotFound),
		errors.Is(err, membership.ErrMembershipNotFound),
		errors.Is(err, membership.ErrCompanyNotFound),
		errors.Is(err, profile.ErrProfileNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
