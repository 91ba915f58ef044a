package staticserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
)

type defaultServer struct {
	config        configuration
	hardShutdown  context.CancelFunc
	softContext   context.Context
	softShutdown  context.CancelFunc
	binder        *bindRetry
	signals       []os.Signal
	listenAddress string
	listenReady   chan<- bool
	httpServer    httpServer
	logger        logger
}

func newServer(config configuration) BindServer {
	softContext, softShutdown := context.WithCancel(config.Context)
	return &defaultServer{
		config:        config,
		hardShutdown:  config.ContextShutdown,
		softContext:   softContext,
		softShutdown:  softShutdown,
		binder:        newBindRetry(config),
		signals:       config.ShutdownSignals,
		listenAddress: config.ListenAddress,
		listenReady:   config.ListenReady,
		httpServer:    config.HTTPServer,
		logger:        config.Logger,
	}
}

// Listen runs the bind-retry phase and then serves HTTP traffic on the
// acquired listener until a shutdown signal arrives or Close is invoked.
// Shutdown signals are subscribed before the bind phase begins so that a
// signal delivered during a retry sleep still produces a clean, logged
// termination rather than the default disposition. The serve phase reuses
// the listener produced by the bind phase; it never binds a second socket.
func (this *defaultServer) Listen() error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, this.signals...)

	waiter := &sync.WaitGroup{}
	waiter.Add(1)
	go this.watchShutdown(waiter, signals)

	listener, err := this.binder.Bind(this.softContext)
	if err != nil {
		this.notifyReady(false)
		this.softShutdown()
		waiter.Wait()
		if errors.Is(err, errBindAbandoned) {
			return nil // shutdown was requested; not a bind failure
		}
		return err
	}

	waiter.Add(1)
	go this.serve(waiter, listener)

	waiter.Wait()
	return nil
}
func (this *defaultServer) serve(waiter *sync.WaitGroup, listener net.Listener) {
	defer waiter.Done()
	defer this.softShutdown() // serving concluded on its own, release the shutdown watcher

	this.notifyReady(true)
	this.logger.Printf("[INFO] Serving HTTP traffic on [%s]...", this.listenAddress)
	if err := this.httpServer.Serve(listener); err == nil || err == http.ErrServerClosed {
		this.logger.Printf("[INFO] HTTP server concluded listening operations.")
	} else {
		this.logger.Printf("[WARN] Unable to serve: [%s]", err)
	}
}
func (this *defaultServer) watchShutdown(waiter *sync.WaitGroup, signals chan os.Signal) {
	defer waiter.Done()
	defer this.hardShutdown()
	defer signal.Stop(signals)

	select {
	case received := <-signals:
		this.logger.Printf("[INFO] Received signal [%s], shutting down.", received)
		this.softShutdown() // aborts a bind phase still in progress
	case <-this.softContext.Done():
	}

	// Immediate close rather than a draining shutdown: termination is
	// expected to conclude promptly even with requests in flight.
	_ = this.httpServer.Close()
}
func (this *defaultServer) notifyReady(value bool) {
	if this.listenReady == nil {
		return
	}

	select {
	case this.listenReady <- value:
	default:
	}
}

func (this *defaultServer) Close() error {
	this.softShutdown()
	return nil
}
