// Package responsewriter wraps http.ResponseWriter to capture the response
// status code and body size for logging and metrics.
package responsewriter

import "net/http"

// Wrapper records the status code and bytes written by a handler.
type Wrapper struct {
	http.ResponseWriter
	status  int
	written int
}

// Wrap returns a Wrapper around w. The status defaults to 200 because
// handlers that never call WriteHeader implicitly send it.
func Wrap(w http.ResponseWriter) *Wrapper {
	return &Wrapper{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the status code before delegating.
func (w *Wrapper) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write counts the bytes written before delegating.
func (w *Wrapper) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// StatusCode returns the recorded status code.
func (w *Wrapper) StatusCode() int {
	return w.status
}

// BytesWritten returns the number of body bytes written.
func (w *Wrapper) BytesWritten() int {
	return w.written
}
