package staticserver

import (
	"context"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"
)

type configuration struct {
	Context         context.Context
	ContextShutdown context.CancelFunc
	Handler         http.Handler
	ListenAddress   string
	MaxBindAttempts int
	BindRetryDelay  time.Duration
	ListenConfig    listenConfig
	ListenReady     chan<- bool
	ShutdownSignals []os.Signal
	HandlePanic     bool
	Monitor         monitor
	Logger          logger
	HTTPServer      httpServer
}

func New(options ...option) BindServer {
	var config configuration
	Options.apply(options...)(&config)
	return newServer(config)
}

var Options singleton

type singleton struct{}
type option func(*configuration)

func (singleton) Context(value context.Context) option {
	return func(this *configuration) { this.Context = value }
}
func (singleton) ListenAddress(value string) option {
	return func(this *configuration) { this.ListenAddress = value }
}
func (singleton) MaxBindAttempts(value int) option {
	return func(this *configuration) { this.MaxBindAttempts = value }
}
func (singleton) BindRetryDelay(value time.Duration) option {
	return func(this *configuration) { this.BindRetryDelay = value }
}
func (singleton) Handler(value http.Handler) option {
	return func(this *configuration) { this.Handler = value }
}
func (singleton) HandlePanic(value bool) option {
	return func(this *configuration) { this.HandlePanic = value }
}
func (singleton) HTTPServer(value httpServer) option {
	return func(this *configuration) { this.HTTPServer = value }
}
func (singleton) ListenConfig(value listenConfig) option {
	return func(this *configuration) { this.ListenConfig = value }
}
func (singleton) ListenReady(value chan<- bool) option {
	return func(this *configuration) { this.ListenReady = value }
}
func (singleton) ShutdownSignals(values ...os.Signal) option {
	return func(this *configuration) { this.ShutdownSignals = values }
}
func (singleton) Monitor(value monitor) option {
	return func(this *configuration) { this.Monitor = value }
}
func (singleton) Logger(value logger) option {
	return func(this *configuration) { this.Logger = value }
}

func (singleton) apply(options ...option) option {
	return func(this *configuration) {
		for _, item := range Options.defaults(options...) {
			item(this)
		}

		// The bind phase always makes at least one attempt.
		if this.MaxBindAttempts < 1 {
			this.MaxBindAttempts = 1
		}

		// An empty signal set would subscribe to every incoming signal.
		if len(this.ShutdownSignals) == 0 {
			this.ShutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
		}

		if this.HandlePanic {
			this.Handler = newRecoveryHandler(this.Handler, this.Monitor, this.Logger)
		}

		this.Context, this.ContextShutdown = context.WithCancel(this.Context)
		if this.HTTPServer == nil {
			this.HTTPServer = &http.Server{
				Addr:        this.ListenAddress,
				Handler:     this.Handler,
				BaseContext: func(net.Listener) context.Context { return this.Context },
			}
		}
	}
}
func (singleton) defaults(options ...option) []option {
	var defaultListenConfig = &net.ListenConfig{Control: func(_, _ string, conn syscall.RawConn) error {
		return conn.Control(func(descriptor uintptr) {
			_ = syscall.SetsockoptInt(int(descriptor), syscall.SOL_SOCKET, socketReusePort, 1)
		})
	}}

	defaultNop := &nop{}

	return append([]option{
		Options.ListenAddress(":8080"),
		Options.MaxBindAttempts(10),
		Options.BindRetryDelay(time.Second),
		Options.ShutdownSignals(syscall.SIGINT, syscall.SIGTERM),
		Options.HandlePanic(true),
		Options.Context(context.Background()),
		Options.Handler(defaultNop),
		Options.Monitor(defaultNop),
		Options.Logger(defaultNop),
		Options.ListenConfig(defaultListenConfig),
		Options.ListenReady(nil),
	}, options...)
}

type nop struct{}

func (*nop) Printf(_ string, _ ...interface{})                {}
func (*nop) ServeHTTP(_ http.ResponseWriter, _ *http.Request) {}
func (*nop) PanicRecovered(*http.Request, interface{})        {}
