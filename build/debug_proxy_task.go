package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goyek/goyek/v2"
)

const maxLoggedBody = 2000

type startKey struct{}

func withStart(r *http.Request) context.Context {
	return context.WithValue(r.Context(), startKey{}, time.Now())
}

// DebugProxy forwards model API traffic and logs every exchange. Point
// base_url at it to watch throttling and context overflow responses.
var DebugProxy = goyek.Define(goyek.Task{
	Name:  "debug-proxy",
	Usage: "Logging reverse proxy for model APIs. Use -target=URL [-port=8080]",
	Action: func(a *goyek.A) {
		if *targetURL == "" {
			a.Fatal("Usage: go run ./build -target=<url> [-port=8080] debug-proxy")
		}
		target, err := url.Parse(*targetURL)
		if err != nil {
			a.Fatalf("Invalid target URL: %v", err)
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		proxy := httputil.NewSingleHostReverseProxy(target)
		director := proxy.Director
		proxy.Director = func(req *http.Request) {
			director(req)
			req.Host = target.Host
		}
		proxy.ModifyResponse = func(resp *http.Response) error {
			body, err := readBody(resp.Body, resp.Header.Get("Content-Encoding"))
			if err != nil {
				return err
			}
			resp.Header.Del("Content-Encoding")
			resp.Body = io.NopCloser(bytes.NewReader(body))
			resp.ContentLength = int64(len(body))

			start, _ := resp.Request.Context().Value(startKey{}).(time.Time)
			logger.Info("response",
				"method", resp.Request.Method,
				"path", resp.Request.URL.Path,
				"status", resp.StatusCode,
				"duration", time.Since(start),
				"retry_after", resp.Header.Get("Retry-After"),
				"body", compact(body),
			)
			return nil
		}

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"auth", maskHeader(r.Header),
				"bytes", len(body),
				"body", compact(body),
			)
			proxy.ServeHTTP(w, r.WithContext(withStart(r)))
		})

		fmt.Fprintf(a.Output(), "Debug proxy listening on http://localhost:%s\n", *port)
		fmt.Fprintf(a.Output(), "Proxying to: %s\n", target)
		fmt.Fprintf(a.Output(), "Set LLMPORT_BASE_URL=http://localhost:%s\n", *port)

		srv := &http.Server{Addr: ":" + *port, Handler: handler}
		go func() {
			<-a.Context().Done()
			srv.Close()
		}()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Fatalf("Server error: %v", err)
		}
	},
})

func readBody(body io.ReadCloser, encoding string) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if encoding == "gzip" {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return data, nil
		}
		defer zr.Close()
		if plain, err := io.ReadAll(zr); err == nil {
			return plain, nil
		}
	}
	return data, nil
}

// compact returns body as single-line JSON when possible, truncated.
func compact(body []byte) string {
	var buf bytes.Buffer
	s := string(body)
	if json.Compact(&buf, body) == nil {
		s = buf.String()
	}
	if len(s) > maxLoggedBody {
		s = s[:maxLoggedBody] + "...(truncated)"
	}
	return s
}

func maskHeader(h http.Header) string {
	for _, name := range []string{"Authorization", "X-Api-Key", "X-Goog-Api-Key"} {
		v := h.Get(name)
		if v == "" {
			continue
		}
		v = strings.TrimPrefix(v, "Bearer ")
		if len(v) > 12 {
			v = v[:6] + "..." + v[len(v)-4:]
		}
		return name + "=" + v
	}
	return ""
}
