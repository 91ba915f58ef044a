package staticserver

import (
	"net/http"
	"runtime/debug"
)

type recoveryHandler struct {
	inner   http.Handler
	monitor monitor
	logger  logger
}

func newRecoveryHandler(inner http.Handler, monitor monitor, logger logger) http.Handler {
	return recoveryHandler{
		inner:   inner,
		monitor: monitor,
		logger:  logger,
	}
}

func (this recoveryHandler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	defer this.finally(response, request)
	this.inner.ServeHTTP(response, request)
}
func (this recoveryHandler) finally(response http.ResponseWriter, request *http.Request) {
	recovered := recover()
	if recovered == nil {
		return
	}

	this.monitor.PanicRecovered(request, recovered)
	this.logger.Printf("[ERROR] Recovered panic: %v\n%s", recovered, debug.Stack())
	http.Error(response, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
