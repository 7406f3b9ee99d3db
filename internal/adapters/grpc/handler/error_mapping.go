package handler

import (
	"errors"

	"github.com/ogurasousui/ems-grpc-clean-arch/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrInvalidType), errors.Is(err, employee.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, employee.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
