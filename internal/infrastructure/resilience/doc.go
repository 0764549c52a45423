/*
Package resilience guards calls to a session host with a circuit breaker.

A host that stops answering makes every window operation wait for its RPC
timeout. The breaker counts transport failures (not result codes returned
by a live host) and, once tripped, rejects calls immediately with an error
that unwraps to types.ErrIPCFailed.

# Usage

	breaker := resilience.New("scene-host", resilience.Settings{
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	err := breaker.Call(ctx, func(ctx context.Context) error {
		return conn.Invoke(ctx, method, req, reply)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
