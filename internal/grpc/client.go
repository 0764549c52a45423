package grpc

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/windowscene/internal/domain/property"
	"github.com/GriffinCanCode/windowscene/internal/domain/window"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/protobuf/types/known/structpb"
)

// Options configures a connection to a session host.
type Options struct {
	// Timeout bounds each call when the caller's context has no deadline.
	Timeout time.Duration
	Breaker resilience.Settings
	Logger  *zap.Logger
	Tracer  *tracing.Tracer
	Metrics *monitoring.Metrics
	// DialOptions are appended to the defaults, e.g. a bufconn dialer.
	DialOptions []grpc.DialOption
}

// Conn is a connection to a session host shared by every session of the
// process. Calls pass through a circuit breaker; a tripped breaker fails
// them with IPC_FAILED without touching the network.
type Conn struct {
	cc      *grpc.ClientConn
	addr    string
	timeout time.Duration
	breaker *resilience.Breaker
	logger  *zap.Logger
}

// Dial creates a connection with proper connection management
func Dial(addr string, opts Options) (*Conn, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	if opts.Breaker.ReadyToTrip == nil {
		opts.Breaker.ReadyToTrip = func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		}
	}

	var interceptors []grpc.UnaryClientInterceptor
	if opts.Tracer != nil {
		interceptors = append(interceptors, tracing.GRPCClientInterceptor(opts.Tracer))
	}
	if opts.Metrics != nil {
		interceptors = append(interceptors, monitoring.UnaryClientInterceptor(opts.Metrics))
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                60 * time.Second,
			Timeout:             20 * time.Second,
			PermitWithoutStream: false,
		}),
		grpc.WithChainUnaryInterceptor(interceptors...),
	}
	dialOpts = append(dialOpts, opts.DialOptions...)

	cc, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial session host: %w", err)
	}

	logger := opts.Logger.Named("host").With(zap.String("addr", addr))
	settings := opts.Breaker
	userChange := settings.OnStateChange
	settings.OnStateChange = func(name string, from, to resilience.State) {
		logger.Warn("session host breaker changed state",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		if userChange != nil {
			userChange(name, from, to)
		}
	}

	return &Conn{
		cc:      cc,
		addr:    addr,
		timeout: opts.Timeout,
		breaker: resilience.New(addr, settings),
		logger:  logger,
	}, nil
}

// Close closes the connection
func (c *Conn) Close() error {
	if c.cc != nil {
		return c.cc.Close()
	}
	return nil
}

// BreakerState reports the state of the host circuit breaker
func (c *Conn) BreakerState() resilience.State {
	return c.breaker.State()
}

// NewSession returns a client for a main window. The host assigns its
// persistent id on Connect.
func (c *Conn) NewSession() *SessionClient {
	return &SessionClient{conn: c}
}

// Manager returns the client for the global session manager
func (c *Conn) Manager() *ManagerClient {
	return &ManagerClient{conn: c}
}

// invoke sends one request and returns the reply fields. A non-zero result
// code is returned as a types.WSError alongside the fields.
func (c *Conn) invoke(ctx context.Context, name string, req *message) (fields, error) {
	in, err := req.build()
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", name, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reply := new(structpb.Struct)
	err = c.breaker.Call(ctx, func(ctx context.Context) error {
		return c.cc.Invoke(ctx, FullMethod(name), in, reply)
	})
	if err != nil {
		c.logger.Debug("session host call failed", zap.String("method", name), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	out := fields(reply.GetFields())
	return out, resultCode(reply)
}

// specific creates a linked session on behalf of the session with parentID
func (c *Conn) specific(ctx context.Context, parentID int64, req window.ConnectRequest) (window.SpecificSession, error) {
	msg := newMessage(parentID).
		property(req.Property).
		str(fieldToken, req.Channel.Token).
		str(fieldURL, req.Channel.URL)

	out, err := c.invoke(ctx, MethodCreateSpecificSession, msg)
	if err != nil {
		return window.SpecificSession{}, err
	}

	child := &SessionClient{conn: c}
	child.id.Store(out.getInt64(fieldTarget))
	return window.SpecificSession{
		PersistentID: child.PersistentID(),
		Session:      child,
		Rect:         out.getRect(fieldRect),
	}, nil
}

func (c *Conn) destroySpecific(ctx context.Context, parentID, persistentID int64) error {
	_, err := c.invoke(ctx, MethodDestroySpecificSession, newMessage(parentID).num(fieldTarget, float64(persistentID)))
	return err
}

// ManagerClient creates system window sessions through the global
// session manager.
type ManagerClient struct {
	conn *Conn
}

var _ window.SpecificSessionManager = (*ManagerClient)(nil)

// CreateAndConnectSpecificSession implements window.SpecificSessionManager
func (m *ManagerClient) CreateAndConnectSpecificSession(ctx context.Context, req window.ConnectRequest) (window.SpecificSession, error) {
	return m.conn.specific(ctx, 0, req)
}

// DestroyAndDisconnectSpecificSession implements window.SpecificSessionManager
func (m *ManagerClient) DestroyAndDisconnectSpecificSession(ctx context.Context, persistentID int64) error {
	return m.conn.destroySpecific(ctx, 0, persistentID)
}

// SessionClient is the remote half of one window session
type SessionClient struct {
	conn *Conn
	id   atomic.Int64
}

var _ window.HostSession = (*SessionClient)(nil)

// PersistentID returns the host-assigned id, 0 before Connect
func (s *SessionClient) PersistentID() int64 {
	return s.id.Load()
}

func (s *SessionClient) msg() *message {
	return newMessage(s.id.Load())
}

func (s *SessionClient) send(ctx context.Context, name string, m *message) error {
	_, err := s.conn.invoke(ctx, name, m)
	return err
}

// Connect implements window.HostSession
func (s *SessionClient) Connect(ctx context.Context, req window.ConnectRequest) (window.ConnectReply, error) {
	m := s.msg().
		property(req.Property).
		str(fieldToken, req.Channel.Token).
		str(fieldURL, req.Channel.URL)

	out, err := s.conn.invoke(ctx, MethodConnect, m)
	if err != nil {
		return window.ConnectReply{}, err
	}

	reply := window.ConnectReply{
		PersistentID: out.getInt64(fieldTarget),
		Rect:         out.getRect(fieldRect),
	}
	s.id.Store(reply.PersistentID)
	return reply, nil
}

func (s *SessionClient) Foreground(ctx context.Context) error {
	return s.send(ctx, MethodForeground, s.msg())
}

func (s *SessionClient) Background(ctx context.Context) error {
	return s.send(ctx, MethodBackground, s.msg())
}

func (s *SessionClient) Disconnect(ctx context.Context) error {
	return s.send(ctx, MethodDisconnect, s.msg())
}

func (s *SessionClient) UpdateActiveStatus(ctx context.Context, active bool) error {
	return s.send(ctx, MethodUpdateActiveStatus, s.msg().boolean(fieldEnable, active))
}

func (s *SessionClient) UpdateSessionRect(ctx context.Context, rect types.Rect, reason types.SizeChangeReason) error {
	return s.send(ctx, MethodUpdateSessionRect, s.msg().rect(fieldRect, rect).num(fieldReason, float64(reason)))
}

func (s *SessionClient) OnSessionEvent(ctx context.Context, event types.SessionEvent) error {
	return s.send(ctx, MethodOnSessionEvent, s.msg().num(fieldEvent, float64(event)))
}

func (s *SessionClient) SetAspectRatio(ctx context.Context, ratio float32) error {
	return s.send(ctx, MethodSetAspectRatio, s.msg().num(fieldRatio, float64(ratio)))
}

func (s *SessionClient) GetAvoidAreaByType(ctx context.Context, typ types.AvoidAreaType) (types.AvoidArea, error) {
	out, err := s.conn.invoke(ctx, MethodGetAvoidAreaByType, s.msg().num(fieldType, float64(typ)))
	if err != nil {
		return types.AvoidArea{}, err
	}
	return decodeAvoidArea(out[fieldArea].GetStructValue()), nil
}

func (s *SessionClient) UpdateProperty(ctx context.Context, action property.Action, data property.Data) error {
	return s.send(ctx, MethodUpdateProperty, s.msg().num(fieldAction, float64(action)).property(data))
}

func (s *SessionClient) OnNeedAvoid(ctx context.Context, status bool) error {
	return s.send(ctx, MethodOnNeedAvoid, s.msg().boolean(fieldEnable, status))
}

func (s *SessionClient) RaiseToAppTop(ctx context.Context) error {
	return s.send(ctx, MethodRaiseToAppTop, s.msg())
}

func (s *SessionClient) RequestSessionBack(ctx context.Context) error {
	return s.send(ctx, MethodRequestSessionBack, s.msg())
}

func (s *SessionClient) SetGlobalMaximizeMode(ctx context.Context, mode types.MaximizeMode) error {
	return s.send(ctx, MethodSetGlobalMaximizeMode, s.msg().num(fieldMode, float64(mode)))
}

func (s *SessionClient) GetGlobalMaximizeMode(ctx context.Context) (types.MaximizeMode, error) {
	out, err := s.conn.invoke(ctx, MethodGetGlobalMaximizeMode, s.msg())
	if err != nil {
		return types.MaximizeModeRecover, err
	}
	return types.MaximizeMode(out.getUint32(fieldMode)), nil
}

// CreateAndConnectSpecificSession creates a sub window session under this one
func (s *SessionClient) CreateAndConnectSpecificSession(ctx context.Context, req window.ConnectRequest) (window.SpecificSession, error) {
	return s.conn.specific(ctx, s.id.Load(), req)
}

// DestroyAndDisconnectSpecificSession tears down a sub window session
func (s *SessionClient) DestroyAndDisconnectSpecificSession(ctx context.Context, persistentID int64) error {
	return s.conn.destroySpecific(ctx, s.id.Load(), persistentID)
}
