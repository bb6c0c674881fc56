package api

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 1 << 20 // 1MB

// WriteJSON marshals v and writes it with the given status. A marshal
// failure downgrades the response to a plain 500 before any body is sent.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// Decode reads a JSON body into dst, capped at 1MB.
// Callers are responsible for writing the error response.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
