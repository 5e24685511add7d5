// qubitd is the engine daemon: it listens for QuantumCompute RPCs and runs
// circuits on the local state-vector simulator, the mock-hardware stand-in,
// or the cloud stub.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"qubitengine/api"
	"qubitengine/quantum"
	"qubitengine/registry"
	"qubitengine/server"
)

func main() {
	listenAddr := flag.String("listen", ":50051", "Address to listen on")
	registryDSN := flag.String("registry-db", "", "Postgres DSN for the circuit registry (optional)")
	flag.Parse()

	if err := run(*listenAddr, *registryDSN); err != nil {
		log.Fatalf("qubitd: %v", err)
	}
}

func run(listenAddr, registryDSN string) error {
	var opts []server.Option
	if registryDSN != "" {
		store, err := registry.Open(registryDSN)
		if err != nil {
			return fmt.Errorf("open circuit registry: %w", err)
		}
		defer store.Close()
		log.Println("circuit registry enabled")
		opts = append(opts, server.WithRegistry(store))
	}

	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddr, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterQuantumComputeServer(grpcServer, server.New(opts...))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		grpcServer.GracefulStop()
	}()

	host, _ := os.Hostname()
	log.Printf("qubitd listening on %s (host %s)", listenAddr, host)
	if err := grpcServer.Serve(lis); err != nil {
		return err
	}

	if err := quantum.ReleaseAccelerator(); err != nil {
		log.Printf("accelerator teardown: %v", err)
	}
	return nil
}
