package tracing

import (
	"context"
	"strconv"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Metadata keys carrying the trace context over gRPC.
const (
	traceMetadataKey = "x-trace-id"
	spanMetadataKey  = "x-span-id"
)

// HTTPMiddleware creates Gin middleware for the debug server
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := map[string]string{
			TraceHeader: c.GetHeader(TraceHeader),
			SpanHeader:  c.GetHeader(SpanHeader),
		}
		ctx := withRemoteParent(c.Request.Context(), headers)

		span, ctx := tracer.StartSpan(ctx, c.FullPath())
		span.SetTag("http.method", c.Request.Method)
		span.SetTag("http.url", c.Request.URL.String())

		c.Request = c.Request.WithContext(ctx)
		c.Header(TraceHeader, string(span.TraceID))
		c.Header(SpanHeader, string(span.SpanID))

		c.Next()

		span.SetStatus(c.Writer.Status())
		span.SetTag("http.status", strconv.Itoa(c.Writer.Status()))
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		}

		span.Finish()
		tracer.Submit(span)
	}
}

// GRPCUnaryInterceptor traces host-side handling of session calls
func GRPCUnaryInterceptor(tracer *Tracer) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			headers := make(map[string]string)
			if vals := md.Get(traceMetadataKey); len(vals) > 0 {
				headers[TraceHeader] = vals[0]
			}
			if vals := md.Get(spanMetadataKey); len(vals) > 0 {
				headers[SpanHeader] = vals[0]
			}
			ctx = withRemoteParent(ctx, headers)
		}

		span, ctx := tracer.StartSpan(ctx, info.FullMethod)
		span.SetTag("rpc.system", "grpc")
		span.SetTag("span.kind", "server")

		resp, err := handler(ctx, req)
		recordResult(span, err)
		tracer.Submit(span)

		return resp, err
	}
}

// GRPCClientInterceptor starts a client span per host call and propagates
// its context in the outgoing metadata
func GRPCClientInterceptor(tracer *Tracer) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		span, ctx := tracer.StartSpan(ctx, method)
		span.SetTag("rpc.system", "grpc")
		span.SetTag("span.kind", "client")

		ctx = metadata.AppendToOutgoingContext(ctx,
			traceMetadataKey, string(span.TraceID),
			spanMetadataKey, string(span.SpanID),
		)

		err := invoker(ctx, method, req, reply, cc, opts...)
		recordResult(span, err)
		tracer.Submit(span)

		return err
	}
}

// recordResult finishes span with the result code of err
func recordResult(span *Span, err error) {
	if err != nil {
		span.SetError(err)
		span.SetTag("wm.code", strconv.Itoa(int(types.Code(err))))
	} else {
		span.SetStatus(0)
	}
	span.Finish()
}

func withRemoteParent(ctx context.Context, headers map[string]string) context.Context {
	traceID, parentID := ExtractTraceContext(headers)
	if traceID != "" {
		ctx = context.WithValue(ctx, traceIDKey, traceID)
	}
	if parentID != "" {
		ctx = context.WithValue(ctx, spanIDKey, parentID)
	}
	return ctx
}
