package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GriffinCanCode/windowscene/internal/shared/id"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func newObserved(t *testing.T) (*Tracer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New("test", zap.New(core))
	t.Cleanup(tracer.Close)
	return tracer, logs
}

func TestStartSpanInheritsTrace(t *testing.T) {
	tracer, _ := newObserved(t)

	root, ctx := tracer.StartSpan(context.Background(), "root")
	assert.True(t, strings.HasPrefix(string(root.TraceID), id.TracePrefix+"_"))
	assert.True(t, strings.HasPrefix(string(root.SpanID), id.SpanPrefix+"_"))
	assert.Empty(t, root.ParentID)

	child, ctx := tracer.StartSpan(ctx, "child")
	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.ParentID)
	assert.Equal(t, child.SpanID, GetSpanID(ctx))
	assert.Equal(t, root.TraceID, GetTraceID(ctx))
}

func TestSubmittedSpansAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New("test", zap.New(core))

	span, _ := tracer.StartSpan(context.Background(), "ok")
	span.SetTag("window", "main")
	span.Finish()
	tracer.Submit(span)

	failed, _ := tracer.StartSpan(context.Background(), "failed")
	failed.SetError(types.ErrIPCFailed)
	failed.Finish()
	tracer.Submit(failed)

	tracer.Close()
	tracer.Submit(span)

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "span completed", entries[0].Message)
	assert.Equal(t, "main", entries[0].ContextMap()["window"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestClientInterceptorPropagatesContext(t *testing.T) {
	tracer, logs := newObserved(t)
	interceptor := GRPCClientInterceptor(tracer)

	var sent metadata.MD
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		sent, _ = metadata.FromOutgoingContext(ctx)
		return types.WSErrInvalidSession
	}

	err := interceptor(context.Background(), "/scene.Session/Show", nil, nil, nil, invoker)
	assert.ErrorIs(t, err, types.WSErrInvalidSession)
	require.Len(t, sent.Get(traceMetadataKey), 1)
	require.Len(t, sent.Get(spanMetadataKey), 1)

	tracer.Close()
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "/scene.Session/Show", logs.All()[0].ContextMap()["operation"])
	assert.Equal(t, "client", logs.All()[0].ContextMap()["span.kind"])
}

func TestServerInterceptorContinuesTrace(t *testing.T) {
	tracer, _ := newObserved(t)
	interceptor := GRPCUnaryInterceptor(tracer)

	traceID := id.NewTraceID()
	parent := id.NewSpanID()
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		traceMetadataKey, string(traceID),
		spanMetadataKey, string(parent),
	))

	var gotTrace TraceID
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		gotTrace = GetTraceID(ctx)
		return "ok", nil
	}

	resp, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/scene.Session/Hide"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, traceID, gotTrace)
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer, _ := newObserved(t)

	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(TraceHeader, "trace_upstream")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace_upstream", w.Header().Get(TraceHeader))
	assert.NotEmpty(t, w.Header().Get(SpanHeader))
}

func TestInjectExtractRoundTrip(t *testing.T) {
	tracer, _ := newObserved(t)
	span, ctx := tracer.StartSpan(context.Background(), "op")

	headers := map[string]string{}
	InjectTraceContext(ctx, headers)
	traceID, spanID := ExtractTraceContext(headers)
	assert.Equal(t, span.TraceID, traceID)
	assert.Equal(t, span.SpanID, spanID)
	assert.Contains(t, FormatTrace(traceID, spanID), string(traceID))
}
