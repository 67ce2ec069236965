package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	apiPrefix = "/api"
	indexFile = "index.html"
)

type webConfig struct {
	Root        string `envconfig:"WEB_ROOT" default:"./web/dist"`
	APIUpstream string `envconfig:"API_UPSTREAM" default:"http://localhost:8000"`
	Port        string `envconfig:"PORT" default:"8080"`
}

func newServer(cfg webConfig) (http.Handler, error) {
	upstream, err := url.Parse(cfg.APIUpstream)
	if err != nil || upstream.Host == "" {
		return nil, fmt.Errorf("invalid API_UPSTREAM %q", cfg.APIUpstream)
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve WEB_ROOT: %w", err)
	}

	router := chi.NewRouter()
	router.Use(chiMiddleware.RealIP, chiMiddleware.Recoverer)

	proxy := apiProxy(upstream)
	router.Handle(apiPrefix, http.StripPrefix(apiPrefix, proxy))
	router.Handle(apiPrefix+"/*", http.StripPrefix(apiPrefix, proxy))
	router.Handle("/*", spa(os.DirFS(root)))

	return router, nil
}

func apiProxy(upstream *url.URL) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(upstream)
			r.SetXForwarded()

			if r.Out.URL.Path == "" {
				r.Out.URL.Path = "/"
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("api upstream unreachable")
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		},
	}

	return proxy
}

// spa serves files from root and falls back to index.html for anything that is not a file.
func spa(root fs.FS) http.Handler {
	files := http.FileServerFS(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")

		if name != "" {
			info, err := fs.Stat(root, name)
			if err == nil && !info.IsDir() {
				files.ServeHTTP(w, r)

				return
			}

			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				log.Warn().Err(err).Str("path", name).Msg("failed to stat static file")
			}
		}

		http.ServeFileFS(w, r, root, indexFile)
	})
}
