package staticserver

import "net/http"

// StaticHandler serves the files beneath root. Response semantics (content
// types, conditional requests, directory listings, not-found pages) are
// delegated wholesale to http.FileServer; this handler only narrows the
// accepted methods to GET and HEAD.
func StaticHandler(root string) http.Handler {
	return &staticHandler{files: http.FileServer(http.Dir(root))}
}

type staticHandler struct {
	files http.Handler
}

func (this *staticHandler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	switch request.Method {
	case http.MethodGet, http.MethodHead:
		this.files.ServeHTTP(response, request)
	default:
		http.Error(response, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}
