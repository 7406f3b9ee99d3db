package server

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/ogurasousui/ems-grpc-clean-arch/internal/adapters/grpc/employeev1"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/adapters/grpc/handler"
	sqliterepo "github.com/ogurasousui/ems-grpc-clean-arch/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/core/employee"
	sqlitedb "github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/db/sqlite"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/metrics"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/ratelimiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func startServer(t *testing.T, opts Options) *grpc.ClientConn {
	t.Helper()

	ctx := context.Background()
	db, err := sqlitedb.Open(ctx, filepath.Join(t.TempDir(), "ems.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqliterepo.EnsureSchema(ctx, db))

	svc := employee.NewService(
		sqliterepo.NewEmployeeRepository(db),
		sqliterepo.NewEmployeeIDCounter(db),
		nil,
		sqlitedb.NewTransactionManager(db),
	)

	srv := New("bufconn", handler.NewEmployeeGrpcHandler(svc), opts)
	lis := bufconn.Listen(1 << 20)

	serveCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(serveCtx, lis) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	conn, err := grpc.NewClient("passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func as(principal string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "x-principal", principal)
}

func TestServer_EmployeeLifecycle(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	conn := startServer(t, Options{Metrics: metrics.New(reg)})
	client := employeev1.NewEmployeeServiceClient(conn)

	req, err := structpb.NewStruct(map[string]any{"name": "A", "email": "a@x"})
	require.NoError(t, err)

	var header metadata.MD
	created, err := client.CreateEmployee(as("P1"), req, grpc.Header(&header))
	require.NoError(t, err)
	require.Equal(t, "1", created.GetFields()["id"].GetStringValue())
	require.Len(t, header.Get(RequestIDMetadataKey), 1)

	_, err = client.GetEmployee(as("P2"), wrapperspb.UInt64(1))
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.DeleteEmployee(as("P2"), wrapperspb.UInt64(1))
	require.Equal(t, codes.PermissionDenied, status.Code(err))

	rating, err := structpb.NewStruct(map[string]any{"employee_id": "1", "rating": "stellar"})
	require.NoError(t, err)
	_, err = client.SetRating(as("P1"), rating)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	msg, err := client.ToggleTransferable(as("P1"), wrapperspb.UInt64(1))
	require.NoError(t, err)
	require.Equal(t, "Employee with ID: 1 has transferable toggled to: true", msg.GetValue())

	msg, err = client.ClaimTransfer(as("P2"), wrapperspb.UInt64(1))
	require.NoError(t, err)
	require.Equal(t, "Employee with ID: 1 has been added to your employ", msg.GetValue())

	list, err := client.ListOwnedEmployees(as("P2"), &emptypb.Empty{})
	require.NoError(t, err)
	require.Len(t, list.GetFields()["employees"].GetListValue().GetValues(), 1)

	_, err = client.ListOwnedEmployees(as("P1"), &emptypb.Empty{})
	require.Equal(t, codes.NotFound, status.Code(err))

	msg, err = client.DeleteEmployee(as("P2"), wrapperspb.UInt64(1))
	require.NoError(t, err)
	require.Equal(t, "Employee with ID: 1 has been deleted", msg.GetValue())

	_, err = client.GetEmployee(context.Background(), wrapperspb.UInt64(1))
	require.Equal(t, codes.Unauthenticated, status.Code(err))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	require.Contains(t, names, "ems_grpc_requests_total")
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	conn := startServer(t, Options{})
	health := healthpb.NewHealthClient(conn)

	resp, err := health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: employeev1.ServiceName})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestServer_RateLimitPerPrincipal(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	conn := startServer(t, Options{
		Metrics: metrics.New(reg),
		Limiter: ratelimiter.New(0.001, 1, time.Minute),
	})
	client := employeev1.NewEmployeeServiceClient(conn)

	_, err := client.ListOwnedEmployees(as("P1"), &emptypb.Empty{})
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.ListOwnedEmployees(as("P1"), &emptypb.Empty{})
	require.Equal(t, codes.ResourceExhausted, status.Code(err))

	_, err = client.ListOwnedEmployees(as("P2"), &emptypb.Empty{})
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
}

func TestServer_RateLimitSkipsMissingPrincipal(t *testing.T) {
	t.Parallel()

	conn := startServer(t, Options{Limiter: ratelimiter.New(0.001, 1, time.Minute)})
	client := employeev1.NewEmployeeServiceClient(conn)

	for i := 0; i < 3; i++ {
		_, err := client.ListOwnedEmployees(context.Background(), &emptypb.Empty{})
		require.Equal(t, codes.Unauthenticated, status.Code(err))
	}

	_, err := client.ListOwnedEmployees(as("P1"), &emptypb.Empty{})
	require.Equal(t, codes.NotFound, status.Code(err))
}
