package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// sseSetup prepares the response for server-sent events and returns the
// flusher. An unsupported writer (no flush) yields ok=false.
func sseSetup(w http.ResponseWriter) (http.Flusher, bool) {
	fl, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fl.Flush()
	return fl, true
}

// sseEvent writes one named event with a JSON payload and flushes it.
func sseEvent(w http.ResponseWriter, fl http.Flusher, event string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b); err != nil {
		return err
	}
	fl.Flush()
	return nil
}
