package ipc

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/windowscene/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/windowscene/internal/shared/id"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/encoding/protowire"
)

// HubConfig defines inbound pacing for websocket channels.
type HubConfig struct {
	EventsPerSecond int
	Burst           int
}

// DefaultHubConfig returns the pacing used when none is configured.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		EventsPerSecond: 1000,
		Burst:           200,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // host and client share a machine
	},
}

// Hub serves event channels over websocket, one connection per channel.
// Each binary frame carries one request: a fixed32 opcode followed by the
// parcel. The reply frame is a fixed32 transport result and the reply parcel.
type Hub struct {
	mu      sync.RWMutex
	stubs   map[string]*Stub // Protected by mu
	baseURL string
	cfg     HubConfig
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewHub creates a hub whose endpoints are advertised under baseURL,
// e.g. "ws://127.0.0.1:9090/events".
func NewHub(baseURL string, cfg HubConfig, logger *zap.Logger, metrics *monitoring.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.EventsPerSecond <= 0 {
		cfg = DefaultHubConfig()
	}
	return &Hub{
		stubs:   make(map[string]*Stub),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Open registers handler and returns its endpoint
func (h *Hub) Open(handler EventHandler) (Endpoint, error) {
	token := id.NewChannelToken().String()

	h.mu.Lock()
	h.stubs[token] = NewStub(handler, WithStubLogger(h.logger), WithStubMetrics(h.metrics))
	h.mu.Unlock()

	return Endpoint{Token: token, URL: h.baseURL + "/" + token}, nil
}

// Close forgets the channel. An open connection is dropped on its next frame.
func (h *Hub) Close(token string) {
	h.mu.Lock()
	delete(h.stubs, token)
	h.mu.Unlock()
}

func (h *Hub) stub(token string) (*Stub, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.stubs[token]
	return s, ok
}

// Register mounts the hub on a gin router
func (h *Hub) Register(r gin.IRoutes) {
	r.GET("/events/:token", h.HandleConnection)
}

// HandleConnection upgrades the request and serves frames until the peer
// disconnects or the channel is closed.
func (h *Hub) HandleConnection(c *gin.Context) {
	token := c.Param("token")
	if _, ok := h.stub(token); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown channel"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Event channel upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.ChannelConnections.Inc()
		defer h.metrics.ChannelConnections.Dec()
	}

	ctx := c.Request.Context()
	limiter := rate.NewLimiter(rate.Limit(h.cfg.EventsPerSecond), h.cfg.Burst)

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			h.logger.Debug("Event channel closed", zap.String("token", token), zap.Error(err))
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		stub, ok := h.stub(token)
		if !ok {
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, serveFrame(stub, msg)); err != nil {
			h.logger.Warn("Event channel write failed", zap.String("token", token), zap.Error(err))
			return
		}
	}
}

func serveFrame(stub *Stub, msg []byte) []byte {
	code, n := protowire.ConsumeFixed32(msg)
	if n < 0 {
		return protowire.AppendFixed32(nil, uint32(ErrInvalidData))
	}
	reply := NewParcel()
	rc := stub.OnRemoteRequest(code, ParcelFrom(msg[n:]), reply)
	out := protowire.AppendFixed32(nil, uint32(rc))
	if rc == ErrNone {
		out = append(out, reply.Bytes()...)
	}
	return out
}

var noDeadline time.Time

// WSRemote is a Remote over a websocket connection to a Hub.
type WSRemote struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// DialRemote connects to an endpoint URL
func DialRemote(ctx context.Context, url string) (*WSRemote, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial event channel: %w", err)
	}
	return &WSRemote{conn: conn}, nil
}

// SendRequest implements Remote. Requests on one connection are serialised.
func (r *WSRemote) SendRequest(ctx context.Context, code Code, data *Parcel) (*Parcel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = r.conn.SetWriteDeadline(deadline)
		_ = r.conn.SetReadDeadline(deadline)
		defer func() {
			_ = r.conn.SetWriteDeadline(noDeadline)
			_ = r.conn.SetReadDeadline(noDeadline)
		}()
	}

	frame := protowire.AppendFixed32(nil, uint32(code))
	frame = append(frame, data.Bytes()...)
	if err := r.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	_, msg, err := r.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	rc, n := protowire.ConsumeFixed32(msg)
	if n < 0 {
		return nil, fmt.Errorf("read frame: %w", ErrShortRead)
	}
	if int32(rc) != ErrNone {
		return nil, transactionError(code, int32(rc))
	}
	return ParcelFrom(msg[n:]), nil
}

// Close closes the connection
func (r *WSRemote) Close() error {
	return r.conn.Close()
}
