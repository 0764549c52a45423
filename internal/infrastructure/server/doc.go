// Package server assembles the scene host process.
//
// A Server owns a loopback session Host served over gRPC, the websocket
// event channel Hub and a gin debug router that exposes the host's
// sessions, the displays and Prometheus metrics. Debug routes can push
// geometry, focus, key and back events into a connected session through
// its event channel.
//
// Supervisor returns a suture tree running both listeners; each is
// restarted on failure and stopped when the context passed to Serve is
// cancelled.
//
//	srv, err := server.New(config.LoadOrDefault(), logging.NewDefault())
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	return srv.Supervisor().Serve(ctx)
package server
