package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"nobudget/internal/middleware/security"
)

// staticHandler serves a built single-page client from dir. Paths that do
// not name a file get index.html so client-side routes survive a reload.
// It returns nil when dir is empty or has no index.html.
func staticHandler(dir string) http.Handler {
	if dir == "" {
		return nil
	}
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return nil
	}

	files := http.FileServer(http.Dir(dir))
	assets := security.StaticAssetMiddleware(3600)(files)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		clean := path.Clean("/" + r.URL.Path)
		if clean != "/" {
			fi, err := os.Stat(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))))
			if err == nil && !fi.IsDir() {
				if strings.HasPrefix(clean, "/static/") {
					assets.ServeHTTP(w, r)
					return
				}
				files.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	})
}
