// Package server is the HTTP side of rhymx.
//
// # Relay
//
// [New] builds the relay that web and mobile clients talk to:
//
//	POST /login      code          -> access_token, refresh_token, expires_in
//	POST /refresh    refresh_token -> access_token, expires_in
//	POST /lyrics     title, artist -> lyrics, rhymes
//	GET  /authorize  redirect to the provider's consent page
//	GET  /healthz    liveness
//	GET  /metrics    Prometheus exposition (when metrics are enabled)
//
// Bodies may be JSON or URL-encoded forms. A missing field answers 402 and never reaches a collaborator. A song
// without lyrics is not an error: the response carries a placeholder and no rhyme groups.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [Middleware] wraps handlers in reverse order
// (last added executes first). The [BasicRouter] implementation uses [http.ServeMux] internally and checks the method
// inside the middleware stack, so CORS preflight and 405 responses pass through logging and metrics.
//
// # Callback Handler
//
// [CallbackHandler] serves the OAuth redirect for `rhymx auth login`. It validates the state parameter, exchanges the
// code through a token service and delivers a single result on a channel. It only processes one callback.
package server
