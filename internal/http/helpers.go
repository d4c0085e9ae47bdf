package http

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

// writeAttachment renders a download into memory first so a failed export
// still produces a JSON error instead of a truncated file.
func (s *Server) writeAttachment(w http.ResponseWriter, r *http.Request, op, fallback, contentType, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.writeError(w, r, op, fallback, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
