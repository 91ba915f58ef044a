package staticserver

import (
	"context"
	"io"
	"net"
	"net/http"
)

// BindServer binds a listening socket (retrying as configured), serves HTTP
// traffic on it until shut down, and reports how binding concluded.
type BindServer interface {
	// Listen blocks until the server is shut down by a signal or by Close.
	// It returns a non-nil error only when the bind phase gives up, in
	// which case serving never started.
	Listen() error
	io.Closer
}

type logger interface {
	Printf(string, ...interface{})
}

type monitor interface {
	PanicRecovered(*http.Request, interface{})
}

type httpServer interface {
	Serve(listener net.Listener) error
	Close() error
}

type listenConfig interface {
	Listen(ctx context.Context, network, address string) (net.Listener, error)
}
