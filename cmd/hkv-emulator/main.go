package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/nucleus/hkv-connector/internal/emulator"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/metrics"
)

const serviceName = "hkv.StoreService"

func main() {
	port := flag.Int("port", 8081, "gRPC server port")
	flag.Parse()

	addr := fmt.Sprintf(":%d", *port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen: %v\n", err)
		os.Exit(1)
	}

	calls := newCallInterceptors()
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			calls.logging,
			calls.recovery,
		),
	)

	svc, err := emulator.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start emulator: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	hkvpb.RegisterStoreServiceServer(server, svc)

	healthSvc := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthSvc)
	healthSvc.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(server)

	go func() {
		fmt.Printf("hkv-emulator listening on %s\n", addr)
		if err := server.Serve(lis); err != nil {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	healthSvc.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		fmt.Println("timeout, forcing stop")
		server.Stop()
	case <-stopped:
		fmt.Println("server stopped gracefully")
	}
}

// callInterceptors bundles a request logger and a panic recoverer
// around the metrics registry they both feed, so every logged line
// carries the method's lifetime call health rather than just the one
// call that just finished.
type callInterceptors struct {
	metrics *metrics.CallMetrics
}

func newCallInterceptors() *callInterceptors {
	return &callInterceptors{metrics: metrics.NewCallMetrics()}
}

func (c *callInterceptors) logging(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	elapsedMs := time.Since(start).Milliseconds()

	c.metrics.Record(info.FullMethod, elapsedMs, err)
	successes, errs, avgMs, _ := c.metrics.Snapshot(info.FullMethod)
	fmt.Printf("%s %dms err=%v (lifetime %d ok / %d err, avg %dms)\n", info.FullMethod, elapsedMs, err, successes, errs, avgMs)
	return resp, err
}

func (c *callInterceptors) recovery(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.metrics.Record(info.FullMethod, 0, fmt.Errorf("panic: %v", r))
			fmt.Printf("recovered panic in %s: %v\n", info.FullMethod, r)
			err = status.Errorf(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}
