package internal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

// ServeHTTP runs the pipeline for one request and writes the result.
// An application that was never built is built on first use.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	built := a.built
	a.mu.Unlock()
	if !built {
		if _, err := a.Build(context.Background()); err != nil {
			a.logger.ErrorContext(r.Context(), "application build failed", slog.String("error", err.Error()))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	c := newContext(r, a.ctxCfg)
	resp := a.pipeline(c)
	a.write(w, c, resp)
}

func (a *App) write(w http.ResponseWriter, c *requestContext, resp *Response) {
	req := c.Request()

	if resp.Threw && resp.Status >= http.StatusInternalServerError {
		c.Logger().ErrorContext(req.Context(), "request failed",
			slog.Int("status", resp.Status),
			slog.Any("error", resp.Err),
		)
	}

	var payload []byte
	if resp.Kind == KindJSON {
		raw, err := json.Marshal(resp.Value)
		if err != nil {
			c.Logger().ErrorContext(req.Context(), "failed to encode response", slog.String("error", err.Error()))
			resp = Threw(c, ErrInternal("failed to encode response", WithError(err)))
			raw, _ = json.Marshal(resp.Value)
		}
		payload = raw
	}

	h := w.Header()
	for k, vs := range resp.Header {
		h[k] = append([]string(nil), vs...)
	}
	if jar := c.loadedJar(); jar != nil {
		for _, v := range jar.Collect() {
			h.Add("Set-Cookie", v)
		}
	}
	h.Set("X-Powered-By", PoweredBy)

	switch resp.Kind {
	case KindText:
		payload = []byte(resp.Text)
	case KindBytes:
		payload = resp.Data
	}
	if payload != nil && h.Get("Content-Length") == "" {
		h.Set("Content-Length", strconv.Itoa(len(payload)))
	}

	w.WriteHeader(resp.Status)
	if req.Method == http.MethodHead || !bodyAllowed(resp.Status) {
		closeStream(resp)
		return
	}

	var err error
	switch {
	case resp.Kind == KindStream:
		_, err = io.Copy(flushWriter{w}, resp.Reader)
		closeStream(resp)
	case payload != nil:
		_, err = w.Write(payload)
	}
	if err != nil {
		c.Logger().WarnContext(req.Context(), "failed to write response body", slog.String("error", err.Error()))
	}
}

func bodyAllowed(status int) bool {
	return status != http.StatusNoContent && status != http.StatusNotModified && status >= 200
}

func closeStream(resp *Response) {
	if resp.Kind != KindStream {
		return
	}
	if closer, ok := resp.Reader.(io.Closer); ok {
		_ = closer.Close()
	}
}

// flushWriter flushes after every write so streamed bodies reach the
// client as they are produced.
type flushWriter struct {
	w http.ResponseWriter
}

func (f flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if flusher, ok := f.w.(http.Flusher); ok {
		flusher.Flush()
	}
	return n, err
}
