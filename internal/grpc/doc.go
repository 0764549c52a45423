// Package grpc carries window sessions to a remote session host.
//
// The service is described by hand rather than generated: a grpc.ServiceDesc
// whose methods exchange structpb.Struct messages over the default proto
// codec. Every request names its target session by persistent id and every
// reply carries the host's result code, which the client returns as a
// types.WSError.
//
// Clients:
//   - SessionClient: window.HostSession for one session
//   - ManagerClient: window.SpecificSessionManager for system windows
//
// Host is an in-memory SessionServer used as a loopback host and in tests.
//
// Example Usage:
//
//	conn, err := grpc.Dial("localhost:50061", grpc.Options{Logger: logger})
//	session := window.NewSceneSession(opt, window.Deps{SessionManager: conn.Manager()})
//	err = session.Create(ctx, ability, conn.NewSession())
package grpc
