package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/log"

	"github.com/google/uuid"
)

const (
	MsgNoFile          = "No file uploaded"
	MsgUnsupportedFile = "Only .jpeg, .jpg and .png formats are allowed"

	multipartOverhead = 64 << 10
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

type uploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// handleUploadImage stores a profile picture under a random name and
// returns its public URL. The type is sniffed from the content, never taken
// from the client.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error uploading image"
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		if isTooLarge(err) {
			ErrorResponse(http.StatusRequestEntityTooLarge, MsgFileTooLarge, "").Write(w)
			return
		}
		s.writeError(w, r, log.OpUpload, fallback, core.Validation(MsgNoFile))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, r, log.OpUpload, fallback, core.Validation(MsgNoFile))
		return
	}
	defer file.Close()

	if header.Size > s.maxUpload {
		ErrorResponse(http.StatusRequestEntityTooLarge, MsgFileTooLarge, "").Write(w)
		return
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		s.writeError(w, r, log.OpUpload, fallback, fmt.Errorf("read upload: %w", err))
		return
	}
	ext, ok := imageExtensions[http.DetectContentType(sniff[:n])]
	if !ok {
		s.writeError(w, r, log.OpUpload, fallback, core.Validation(MsgUnsupportedFile))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.writeError(w, r, log.OpUpload, fallback, fmt.Errorf("rewind upload: %w", err))
		return
	}

	name := uuid.NewString() + ext
	if err := saveUpload(filepath.Join(s.uploadDir, name), file); err != nil {
		s.writeError(w, r, log.OpUpload, fallback, err)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "Image uploaded", "file", name, "bytes", header.Size)
	writeJSON(w, http.StatusOK, uploadResponse{ImageURL: requestBaseURL(r) + "/uploads/" + name})
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close upload file: %w", err)
	}
	return nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
