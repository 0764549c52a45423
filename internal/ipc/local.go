package ipc

import (
	"context"
	"sync"

	"github.com/GriffinCanCode/windowscene/internal/shared/id"
)

// Endpoint identifies an opened event channel. URL is empty for in-process
// channels.
type Endpoint struct {
	Token string
	URL   string
}

// LocalRemote delivers requests to a stub in the same process.
type LocalRemote struct {
	Stub *Stub
}

// SendRequest implements Remote
func (r LocalRemote) SendRequest(ctx context.Context, code Code, data *Parcel) (*Parcel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reply := NewParcel()
	if rc := r.Stub.OnRemoteRequest(uint32(code), ParcelFrom(data.Bytes()), reply); rc != ErrNone {
		return nil, transactionError(code, rc)
	}
	return ParcelFrom(reply.Bytes()), nil
}

// LocalChannels opens in-process channels keyed by token.
type LocalChannels struct {
	mu    sync.RWMutex
	stubs map[string]*Stub // Protected by mu
	opts  []StubOption
}

// NewLocalChannels creates an empty channel table
func NewLocalChannels(opts ...StubOption) *LocalChannels {
	return &LocalChannels{stubs: make(map[string]*Stub), opts: opts}
}

// Open registers handler and returns its endpoint
func (c *LocalChannels) Open(handler EventHandler) (Endpoint, error) {
	token := id.NewChannelToken().String()

	c.mu.Lock()
	c.stubs[token] = NewStub(handler, c.opts...)
	c.mu.Unlock()

	return Endpoint{Token: token}, nil
}

// Close forgets the channel
func (c *LocalChannels) Close(token string) {
	c.mu.Lock()
	delete(c.stubs, token)
	c.mu.Unlock()
}

// Remote returns a Remote for an open channel
func (c *LocalChannels) Remote(token string) (Remote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stub, ok := c.stubs[token]
	if !ok {
		return nil, false
	}
	return LocalRemote{Stub: stub}, true
}

// Len returns the number of open channels
func (c *LocalChannels) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stubs)
}
