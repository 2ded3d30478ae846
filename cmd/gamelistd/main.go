// gamelistd gRPC server
// Serves per-directory game catalogs from a ROM library
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/nainya/gamelist/internal/config"
	"github.com/nainya/gamelist/internal/logger"
	"github.com/nainya/gamelist/internal/metrics"
	"github.com/nainya/gamelist/internal/server"
	"github.com/nainya/gamelist/pkg/emulator"
	"github.com/nainya/gamelist/pkg/library"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "gamelistd: %v\n", err)
		os.Exit(2)
	}

	logger.InitGlobalLogger(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})
	log := logger.GetGlobalLogger()
	log.LogServerStart(cfg.Port, cfg.RomsRoot)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	prober, err := emulator.NewProber(cfg.Cache.Extensions)
	if err != nil {
		log.Fatal("Failed to create prober").Err(err).Send()
	}
	policy := cfg.Policy()
	log.Debug("Field policy loaded").Strs("fields", policy.Names()).Send()
	lib, err := library.New(
		library.WithLogger(log.CatalogLogger("library")),
		library.WithPolicy(policy),
		library.WithProber(prober),
		library.WithObserver(library.Observers(m, server.NewCatalogLogObserver(log))),
	)
	if err != nil {
		log.Fatal("Failed to create library").Err(err).Send()
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		log.Fatal("Failed to listen").Err(err).Int("port", cfg.Port).Send()
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(server.GrpcMetricsInterceptor(m, log)),
		grpc.MaxRecvMsgSize(64*1024*1024),
		grpc.MaxSendMsgSize(64*1024*1024),
	)
	server.RegisterGameListServiceServer(grpcServer, server.NewServer(lib, cfg.RomsRoot, policy, log))

	// Register reflection service for grpcurl/grpcui
	reflection.Register(grpcServer)

	var obs *server.ObservabilityServer
	if cfg.MetricsPort != 0 {
		obs = server.NewObservabilityServer(cfg.MetricsPort, reg, log)
		go func() {
			if err := obs.Start(); err != nil {
				log.Error("Observability server stopped").Err(err).Send()
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.LogServerShutdown()
		if obs != nil {
			obs.SetReady(false)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := obs.Shutdown(ctx); err != nil {
				log.Error("Observability shutdown failed").Err(err).Send()
			}
		}
		grpcServer.GracefulStop()
	}()

	log.LogServerReady(cfg.Port)
	if obs != nil {
		obs.SetReady(true)
	}
	if err := grpcServer.Serve(lis); err != nil {
		log.Fatal("Failed to serve").Err(err).Send()
	}
}
