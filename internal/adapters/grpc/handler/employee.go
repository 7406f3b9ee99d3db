package handler

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/ems-grpc-clean-arch/internal/adapters/grpc/employeev1"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
}

var _ employeev1.EmployeeServiceServer = (*EmployeeGrpcHandler)(nil)

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// ListOwnedEmployees は呼び出し元が雇用している社員の一覧を返します。
func (h *EmployeeGrpcHandler) ListOwnedEmployees(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	caller, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	owned, err := h.svc.ListOwnedEmployees(ctx, employee.ListOwnedEmployeesInput{Caller: caller})
	if err != nil {
		return nil, toStatusError(err)
	}

	items := make([]any, 0, len(owned))
	for _, emp := range owned {
		items = append(items, employeeFields(emp))
	}
	return newStruct(map[string]any{"employees": items})
}

// GetEmployee は社員を取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	caller, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetEmployee(ctx, employee.GetEmployeeInput{Caller: caller, ID: req.GetValue()})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(employeeFields(found))
}

// CreateEmployee は呼び出し元を雇用主として社員を作成します。
func (h *EmployeeGrpcHandler) CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	name, err := stringField(req, "name")
	if err != nil {
		return nil, err
	}
	email, err := stringField(req, "email")
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateEmployee(ctx, employee.CreateEmployeeInput{Caller: caller, Name: name, Email: email})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(employeeFields(created))
}

// SetRating は社員の評価を設定します。
func (h *EmployeeGrpcHandler) SetRating(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := idField(req, "employee_id")
	if err != nil {
		return nil, err
	}
	rating, err := stringField(req, "rating")
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.SetRating(ctx, employee.SetRatingInput{Caller: caller, ID: id, Rating: rating})
	if err != nil {
		return nil, toStatusError(err)
	}
	return newStruct(employeeFields(updated))
}

// ToggleTransferable は移籍可否フラグを反転します。
func (h *EmployeeGrpcHandler) ToggleTransferable(ctx context.Context, req *wrapperspb.UInt64Value) (*wrapperspb.StringValue, error) {
	caller, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	msg, err := h.svc.ToggleTransferable(ctx, employee.ToggleTransferableInput{Caller: caller, ID: req.GetValue()})
	if err != nil {
		return nil, toStatusError(err)
	}
	return wrapperspb.String(msg), nil
}

// ClaimTransfer は移籍可能な社員を呼び出し元の雇用下に移します。
func (h *EmployeeGrpcHandler) ClaimTransfer(ctx context.Context, req *wrapperspb.UInt64Value) (*wrapperspb.StringValue, error) {
	caller, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	msg, err := h.svc.ClaimTransfer(ctx, employee.ClaimTransferInput{Caller: caller, ID: req.GetValue()})
	if err != nil {
		return nil, toStatusError(err)
	}
	return wrapperspb.String(msg), nil
}

// DeleteEmployee は社員を削除します。
func (h *EmployeeGrpcHandler) DeleteEmployee(ctx context.Context, req *wrapperspb.UInt64Value) (*wrapperspb.StringValue, error) {
	caller, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	msg, err := h.svc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{Caller: caller, ID: req.GetValue()})
	if err != nil {
		return nil, toStatusError(err)
	}
	return wrapperspb.String(msg), nil
}

// employeeFields は社員を構造体フィールドに変換します。
// ID は 2^53 を超える値を失わないよう 10 進文字列で表現します。
func employeeFields(emp *employee.Employee) map[string]any {
	fields := map[string]any{
		"id":           strconv.FormatUint(emp.ID, 10),
		"name":         emp.Name,
		"email":        emp.Email,
		"employer_id":  emp.EmployerID,
		"rating":       nil,
		"transferable": emp.Transferable,
		"created_at":   emp.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":   nil,
	}
	if emp.Rating != nil {
		fields["rating"] = string(*emp.Rating)
	}
	if emp.UpdatedAt != nil {
		fields["updated_at"] = emp.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return fields
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}

func stringField(req *structpb.Struct, key string) (string, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return "", nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", key)
	}
	return s.StringValue, nil
}

// idField は数値または 10 進文字列の ID を受け付けます。
func idField(req *structpb.Struct, key string) (uint64, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n < 0 || n != math.Trunc(n) || n > 1<<53 {
			return 0, status.Errorf(codes.InvalidArgument, "%s must be a non-negative integer", key)
		}
		return uint64(n), nil
	case *structpb.Value_StringValue:
		id, err := strconv.ParseUint(strings.TrimSpace(kind.StringValue), 10, 64)
		if err != nil {
			return 0, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: %v", key, err))
		}
		return id, nil
	default:
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number or decimal string", key)
	}
}
