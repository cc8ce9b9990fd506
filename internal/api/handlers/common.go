package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/bmstu-itstech/botarena/pkg/errors"
)

// bufferPool recycles encoding buffers across requests, matching the
// teacher's allocation-conscious writeJSON helper.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeError(w http.ResponseWriter, err error) {
	appErr := errors.ToAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Code)
	response := []byte(`{"error":"` + appErr.Message + `"}`)
	_, _ = w.Write(response)
}

// commandResponse is the wire shape of every §7 {success, message} command
// result.
type commandResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
