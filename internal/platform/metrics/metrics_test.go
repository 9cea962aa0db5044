package metrics

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestUnaryServerInterceptor_CountsByCode(t *testing.T) {
	t.Parallel()

	m := New()
	interceptor := m.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/jackisa.payroll.v1.PayrollService/CalculatePAYE"}

	ok := func(ctx context.Context, req any) (any, error) { return "ok", nil }
	bad := func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.InvalidArgument, "bad")
	}

	if _, err := interceptor(context.Background(), nil, info, ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := interceptor(context.Background(), nil, info, bad); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected error to pass through, got %v", err)
	}

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(info.FullMethod, codes.OK.String())); got != 1 {
		t.Fatalf("expected 1 OK request, got %v", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(info.FullMethod, codes.InvalidArgument.String())); got != 1 {
		t.Fatalf("expected 1 InvalidArgument request, got %v", got)
	}
}

func TestHandler_ExposesPAYECounter(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObservePAYE("ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), `jackisa_payroll_paye_calculations_total{outcome="ok"} 1`) {
		t.Fatalf("expected PAYE counter in exposition, got:\n%s", rec.Body.String())
	}
}
