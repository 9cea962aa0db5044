package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ogurasousui/jackisa-office/internal/adapters/grpc/handler"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Services は登録する gRPC サービスです。nil のサービスは登録しません。
type Services struct {
	Payroll    handler.PayrollServer
	Session    handler.SessionServer
	Profile    handler.ProfileServer
	Company    handler.CompanyServer
	Membership handler.MembershipServer
	Tools      handler.ToolsServer
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *zap.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
func New(listenAddr string, services Services, logger *zap.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := grpc.NewServer(opts...)
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)

	register := func(desc *grpc.ServiceDesc, impl any) {
		srv.RegisterService(desc, impl)
		healthSrv.SetServingStatus(desc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	}
	if services.Payroll != nil {
		register(handler.PayrollServiceDesc, services.Payroll)
	}
	if services.Session != nil {
		register(handler.SessionServiceDesc, services.Session)
	}
	if services.Profile != nil {
		register(handler.ProfileServiceDesc, services.Profile)
	}
	if services.Company != nil {
		register(handler.CompanyServiceDesc, services.Company)
	}
	if services.Membership != nil {
		register(handler.MembershipServiceDesc, services.Membership)
	}
	if services.Tools != nil {
		register(handler.ToolsServiceDesc, services.Tools)
	}

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthSrv,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は指定されたリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	s.logger.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
