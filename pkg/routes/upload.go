package routes

import (
	"net/http"

	"github.com/getmockd/perfstub/internal/id"
	"github.com/getmockd/perfstub/pkg/httputil"
)

const (
	uploadField    = "file"
	uploadMemBytes = 32 << 20
)

// handleUpload accepts a multipart "file" part and reports its metadata.
// The content is discarded.
func (rt *Router) handleUpload(w http.ResponseWriter, r *http.Request) {
	if rt.perf.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.perf.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(uploadMemBytes); err != nil {
		rt.rejectUpload(w)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile(uploadField)
	if err != nil {
		rt.rejectUpload(w)
		return
	}
	_ = file.Close()

	mimetype := hdr.Header.Get("Content-Type")
	if mimetype == "" {
		rt.rejectUpload(w)
		return
	}
	rt.log.Info("file uploaded", "filename", hdr.Filename, "size", hdr.Size)
	httputil.Envelope(w, http.StatusOK, map[string]any{
		"id":       id.UUID(),
		"filename": hdr.Filename,
		"mimetype": mimetype,
		"size":     hdr.Size,
		"message":  "PDF file received.",
	})
}

func (rt *Router) rejectUpload(w http.ResponseWriter) {
	httputil.Envelope(w, http.StatusBadRequest, map[string]any{
		"error": "No PDF file uploaded or invalid file type",
	})
}
