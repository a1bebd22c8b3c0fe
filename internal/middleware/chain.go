package middleware

import "net/http"

// Chain applies middleware so they run in the order given: the first
// argument is the outermost wrapper.
//
//	handler := Chain(mux,
//	    RequestLogging,      // runs first
//	    CORS(origins),
//	    AuthMiddleware(auth), // runs last, closest to mux
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
