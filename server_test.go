package staticserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestServerFixture(t *testing.T) {
	gunit.Run(new(ServerFixture), t)
}

type ServerFixture struct {
	*gunit.Fixture

	server   BindServer
	ready    chan bool
	listener *fakeListener

	listenCount   int
	listenNetwork string
	listenAddress string
	listenError   error

	serveCount    int
	serveListener net.Listener
	serveError    error
	serveRelease  chan struct{}

	closeOnce  sync.Once
	closeCount int

	mutex  sync.Mutex
	logged []string
}

func (this *ServerFixture) Setup() {
	this.ready = make(chan bool, 1)
	this.listener = &fakeListener{}
	this.serveRelease = make(chan struct{})
	this.initialize()
}
func (this *ServerFixture) initialize(options ...option) {
	this.server = New(append([]option{
		Options.ListenAddress(":8080"),
		Options.BindRetryDelay(0),
		Options.ListenConfig(this),
		Options.HTTPServer(this),
		Options.ListenReady(this.ready),
		Options.Logger(this),
	}, options...)...)
}

func (this *ServerFixture) TestServePhase_ReusesListenerFromBindPhase() {
	go func() {
		<-this.ready
		_ = this.server.Close()
	}()

	err := this.server.Listen()

	this.So(err, should.BeNil)
	this.So(this.listenCount, should.Equal, 1) // the serve phase performed no bind of its own
	this.So(this.listenNetwork, should.Equal, "tcp")
	this.So(this.listenAddress, should.Equal, ":8080")
	this.So(this.serveCount, should.Equal, 1)
	this.So(this.serveListener, should.Equal, this.listener)
	this.So(this.closeCount, should.Equal, 1)
}
func (this *ServerFixture) TestBindRetriesExhausted_ServingNeverStarts() {
	this.listenError = errors.New("address already in use")
	this.initialize(Options.MaxBindAttempts(3))

	err := this.server.Listen()

	var exhausted *ExhaustedError
	this.So(errors.As(err, &exhausted), should.BeTrue)
	this.So(exhausted.Attempts, should.Equal, 3)
	this.So(this.listenCount, should.Equal, 3)
	this.So(this.serveCount, should.Equal, 0)
	this.So(this.listener.closed, should.Equal, 3)
	this.So(<-this.ready, should.BeFalse)
}
func (this *ServerFixture) TestCloseInvoked_ListenConcludesPromptly() {
	go func() {
		time.Sleep(time.Millisecond * 5)
		_ = this.server.Close()
	}()

	started := time.Now().UTC()
	err := this.server.Listen()

	this.So(err, should.BeNil)
	this.So(time.Since(started), should.BeGreaterThan, time.Millisecond*5)
}
func (this *ServerFixture) TestShutdownSignalReceived_ListenConcludesAndLogsSignalName() {
	this.initialize(Options.ShutdownSignals(syscall.SIGUSR1))

	go func() {
		<-this.ready
		_ = syscall.Kill(syscall.Getpid(), syscall.SIGUSR1)
	}()

	err := this.server.Listen()

	this.So(err, should.BeNil)
	this.So(this.closeCount, should.Equal, 1)
	this.So(this.logContainsMessage("Received signal"), should.BeTrue)
}
func (this *ServerFixture) TestCloseDuringBindPhase_ListenConcludesCleanly() {
	this.listenError = errors.New("address already in use")
	this.initialize(Options.MaxBindAttempts(1000), Options.BindRetryDelay(time.Millisecond))

	go func() {
		time.Sleep(time.Millisecond * 30)
		_ = this.server.Close()
	}()

	err := this.server.Listen()

	this.So(err, should.BeNil) // a requested shutdown, not a bind failure
	this.So(this.serveCount, should.Equal, 0)
	this.So(this.listenCount, should.BeLessThan, 1000)
}
func (this *ServerFixture) TestSignalDuringBindPhase_ListenConcludesCleanlyAndLogsSignalName() {
	this.listenError = errors.New("address already in use")
	this.initialize(
		Options.MaxBindAttempts(1000),
		Options.BindRetryDelay(time.Millisecond),
		Options.ShutdownSignals(syscall.SIGUSR2))

	go func() {
		time.Sleep(time.Millisecond * 30)
		_ = syscall.Kill(syscall.Getpid(), syscall.SIGUSR2)
	}()

	err := this.server.Listen()

	this.So(err, should.BeNil)
	this.So(this.serveCount, should.Equal, 0)
	this.So(this.listenCount, should.BeLessThan, 1000)
	this.So(this.logContainsMessage("Received signal"), should.BeTrue)
}
func (this *ServerFixture) TestServeFails_FailureIsLoggedAndListenConcludes() {
	const failureMessage = "this message should be logged"
	this.serveError = errors.New(failureMessage)

	err := this.server.Listen()

	this.So(err, should.BeNil)
	this.So(this.logContainsMessage(failureMessage), should.BeTrue)
}
func (this *ServerFixture) TestServeConcludesWithServerClosed_NoWarningLogged() {
	this.serveError = http.ErrServerClosed

	err := this.server.Listen()

	this.So(err, should.BeNil)
	this.So(this.logContainsMessage("[WARN]"), should.BeFalse)
	this.So(this.logContainsMessage("concluded"), should.BeTrue)
}
func (this *ServerFixture) logContainsMessage(text string) bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	for _, message := range this.logged {
		if strings.Contains(message, text) {
			return true
		}
	}

	return false
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

func (this *ServerFixture) Listen(_ context.Context, network, address string) (net.Listener, error) {
	this.listenCount++
	this.listenNetwork = network
	this.listenAddress = address
	return this.listener, this.listenError
}
func (this *ServerFixture) Serve(listener net.Listener) error {
	this.serveCount++
	this.serveListener = listener
	if this.serveError != nil {
		return this.serveError
	}
	<-this.serveRelease
	return http.ErrServerClosed
}
func (this *ServerFixture) Close() error {
	this.closeOnce.Do(func() {
		this.closeCount++
		close(this.serveRelease)
	})
	return nil
}

func (this *ServerFixture) Printf(format string, args ...interface{}) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.logged = append(this.logged, fmt.Sprintf(format, args...))
}

type fakeListener struct{ closed int }

func (this *fakeListener) Accept() (net.Conn, error) { panic("nop") }
func (this *fakeListener) Close() error              { this.closed++; return nil }
func (this *fakeListener) Addr() net.Addr            { panic("nop") }
