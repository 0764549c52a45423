/*
Package tracing records spans for calls between a window client and its
session host.

Every outbound HostSession RPC gets a client span. The trace and span ids
travel in gRPC metadata so the host side can continue the trace. Finished
spans are logged through zap by a background collector.

# Usage

	tracer := tracing.New("scene-client", logger)
	defer tracer.Close()

	conn, err := grpc.NewClient(addr,
		grpc.WithUnaryInterceptor(tracing.GRPCClientInterceptor(tracer)),
	)

	server := grpc.NewServer(
		grpc.UnaryInterceptor(tracing.GRPCUnaryInterceptor(tracer)),
	)

# Propagation

HTTP requests carry X-Trace-ID and X-Span-ID headers; gRPC calls carry
x-trace-id and x-span-id metadata. Ids are prefixed ULIDs from package id.
*/
package tracing
