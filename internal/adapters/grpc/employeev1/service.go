// Package employeev1 は ems.employee.v1.EmployeeService の gRPC サービス定義です。
// メッセージには protobuf の well-known types を使用します。
package employeev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "ems.employee.v1.EmployeeService"

const (
	ListOwnedEmployeesFullMethodName = "/" + ServiceName + "/ListOwnedEmployees"
	GetEmployeeFullMethodName        = "/" + ServiceName + "/GetEmployee"
	CreateEmployeeFullMethodName     = "/" + ServiceName + "/CreateEmployee"
	SetRatingFullMethodName          = "/" + ServiceName + "/SetRating"
	ToggleTransferableFullMethodName = "/" + ServiceName + "/ToggleTransferable"
	ClaimTransferFullMethodName      = "/" + ServiceName + "/ClaimTransfer"
	DeleteEmployeeFullMethodName     = "/" + ServiceName + "/DeleteEmployee"
)

// EmployeeServiceServer は EmployeeService のサーバー側インターフェースです。
type EmployeeServiceServer interface {
	ListOwnedEmployees(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetEmployee(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
	CreateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetRating(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleTransferable(context.Context, *wrapperspb.UInt64Value) (*wrapperspb.StringValue, error)
	ClaimTransfer(context.Context, *wrapperspb.UInt64Value) (*wrapperspb.StringValue, error)
	DeleteEmployee(context.Context, *wrapperspb.UInt64Value) (*wrapperspb.StringValue, error)
}

// RegisterEmployeeServiceServer はサーバー実装を登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeServiceDesc, srv)
}

// EmployeeServiceDesc は EmployeeService の grpc.ServiceDesc です。
var EmployeeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListOwnedEmployees", Handler: listOwnedEmployeesHandler},
		{MethodName: "GetEmployee", Handler: getEmployeeHandler},
		{MethodName: "CreateEmployee", Handler: createEmployeeHandler},
		{MethodName: "SetRating", Handler: setRatingHandler},
		{MethodName: "ToggleTransferable", Handler: toggleTransferableHandler},
		{MethodName: "ClaimTransfer", Handler: claimTransferHandler},
		{MethodName: "DeleteEmployee", Handler: deleteEmployeeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ems/employee/v1/employee.proto",
}

// unary は単項 RPC のデコードとインターセプタ呼び出しを共通化します。
func unary[Req any, Resp any](fullMethod string, call func(EmployeeServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EmployeeServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(EmployeeServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	listOwnedEmployeesHandler = unary(ListOwnedEmployeesFullMethodName, EmployeeServiceServer.ListOwnedEmployees)
	getEmployeeHandler        = unary(GetEmployeeFullMethodName, EmployeeServiceServer.GetEmployee)
	createEmployeeHandler     = unary(CreateEmployeeFullMethodName, EmployeeServiceServer.CreateEmployee)
	setRatingHandler          = unary(SetRatingFullMethodName, EmployeeServiceServer.SetRating)
	toggleTransferableHandler = unary(ToggleTransferableFullMethodName, EmployeeServiceServer.ToggleTransferable)
	claimTransferHandler      = unary(ClaimTransferFullMethodName, EmployeeServiceServer.ClaimTransfer)
	deleteEmployeeHandler     = unary(DeleteEmployeeFullMethodName, EmployeeServiceServer.DeleteEmployee)
)

// EmployeeServiceClient は EmployeeService のクライアントです。
type EmployeeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeServiceClient は EmployeeServiceClient を生成します。
func NewEmployeeServiceClient(cc grpc.ClientConnInterface) *EmployeeServiceClient {
	return &EmployeeServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmployeeServiceClient) ListOwnedEmployees(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ListOwnedEmployeesFullMethodName, in, opts...)
}

func (c *EmployeeServiceClient) GetEmployee(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, GetEmployeeFullMethodName, in, opts...)
}

func (c *EmployeeServiceClient) CreateEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, CreateEmployeeFullMethodName, in, opts...)
}

func (c *EmployeeServiceClient) SetRating(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, SetRatingFullMethodName, in, opts...)
}

func (c *EmployeeServiceClient) ToggleTransferable(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, ToggleTransferableFullMethodName, in, opts...)
}

func (c *EmployeeServiceClient) ClaimTransfer(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, ClaimTransferFullMethodName, in, opts...)
}

func (c *EmployeeServiceClient) DeleteEmployee(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, DeleteEmployeeFullMethodName, in, opts...)
}
