package web

// Middleware is a function designed to run some code before and/or after
// another Handler.
type Middleware func(Handler) Handler

// wrapMiddleware creates a new handler by wrapping middleware around a final
// handler. The middlewares' Handlers will be executed by requests in the order
// they are provided.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if h := mw[i]; h != nil {
			handler = h(handler)
		}
	}

	return handler
}
