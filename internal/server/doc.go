// Package server exposes a session over a small JSON HTTP API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so path wildcards such as
// {id} are available through [http.Request.PathValue].
//
// # API
//
// [API] serialises every request through one mutex; the wrapped [app.Session] sees a single
// command at a time. Errors map onto status codes by kind: validation 400, not found 404,
// missing confirmation 412, anything else 500.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
