package web

import (
	"net/http"
)

// Group wraps the App for wrapping multiple handlers with middlewares.
type Group struct {
	app         *App
	prefixPath  string
	middlewares []Middleware
}

// NewGroup initializes a group of http handlers, with a bunch of middlewares.
func NewGroup(app *App, prefixPath string, mw ...Middleware) *Group {
	return &Group{
		app,
		prefixPath,
		mw,
	}
}

// Handle uses our app.Handle mechanism for mounting Handlers for a given HTTP verb and path pair.
// it wraps a group of handlers with the given middlewares.
func (g *Group) Handle(verb string, path string, handler Handler, mw ...Middleware) {
	g.app.Handle(verb, g.prefixPath+path, handler, g.with(mw)...)
}

// Post executes a http POST request, within a group, with the given handlers.
func (g *Group) Post(path string, handler Handler, mw ...Middleware) {
	g.Handle(http.MethodPost, path, handler, mw...)
}

// Get executes a http GET request, within a group, with the given handlers.
func (g *Group) Get(path string, handler Handler, mw ...Middleware) {
	g.Handle(http.MethodGet, path, handler, mw...)
}

// Delete executes a http DELETE request, within a group, with the given handlers.
func (g *Group) Delete(path string, handler Handler, mw ...Middleware) {
	g.Handle(http.MethodDelete, path, handler, mw...)
}

// NewSubgroup initializes a subgroup, within a group, with a bunch of additional middlewares.
func (g *Group) NewSubgroup(prefixPath string, mw ...Middleware) *Group {
	return &Group{
		g.app,
		g.prefixPath + prefixPath,
		g.with(mw),
	}
}

// with copies the group middlewares so sibling routes never share a backing array.
func (g *Group) with(mw []Middleware) []Middleware {
	middlewares := make([]Middleware, 0, len(g.middlewares)+len(mw))
	middlewares = append(middlewares, g.middlewares...)

	return append(middlewares, mw...)
}
