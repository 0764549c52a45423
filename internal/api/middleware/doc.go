// Package middleware holds the gin middleware of the scene host debug server.
//
// CORS lets a browser dashboard read session state. RateLimit paces each
// client address with its own token bucket and forgets clients that have
// been idle for longer than IdleTimeout.
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
