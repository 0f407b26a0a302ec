package server

import (
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// staticHandler serves the browser client assets over plain GET: extension
// selects the content type, content sniffing covers unknown extensions,
// anything missing is a 404. Not part of the relay protocol.
type staticHandler struct {
	log  *slog.Logger
	root string
}

func newStaticHandler(log *slog.Logger, root string) *staticHandler {
	return &staticHandler{log: log, root: root}
}

func (s *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := path.Clean("/" + r.URL.Path)
	if p == "/" {
		p = "/index.html"
	}
	if strings.Contains(p, "..") {
		http.NotFound(w, r)
		return
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(p)))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(p))
	if ctype == "" {
		ctype = mimetype.Detect(data).String()
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(data)
}
