package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Charlelielataste/weeding/internal/config"
	"github.com/Charlelielataste/weeding/internal/metrics"
	"github.com/Charlelielataste/weeding/internal/models"
	"github.com/Charlelielataste/weeding/internal/storage"
	"github.com/Charlelielataste/weeding/internal/utils"
)

// SimpleUploadHandler handles single-shot uploads for files at or below the
// chunked-path threshold. No session is involved: the file arrives whole and
// is pushed straight to the blob store.
func SimpleUploadHandler(cfg *config.Config, store storage.ObjectStore, kind models.MediaKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", "", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxSimpleUploadSize+multipartOverhead)

		if err := r.ParseMultipartForm(cfg.MaxSimpleUploadSize + multipartOverhead); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				sendError(w,
					"File too large for single-shot upload",
					fmt.Sprintf("files above %d bytes must use the chunked endpoint", cfg.MaxSimpleUploadSize),
					http.StatusRequestEntityTooLarge,
				)
				return
			}
			sendError(w, "Invalid multipart form", err.Error(), http.StatusBadRequest)
			return
		}
		// The platform's request-scoped temp file is the only local state on
		// this path; remove it once the push is done
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			sendError(w, "Missing file", "multipart field 'file' is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		fallback := "image/jpeg"
		if kind == models.KindVideo {
			fallback = "video/mp4"
		}
		// Browsers send application/octet-stream for files they cannot
		// identify; treat that the same as no declared type
		declared := header.Header.Get("Content-Type")
		if declared == "application/octet-stream" {
			declared = ""
		}
		contentType := utils.ResolveContentType(header.Filename, declared, "")
		if contentType == "" {
			contentType = sniffContentType(file, fallback)
		}
		key := utils.ObjectKey(kind, "", header.Filename)

		pushStart := time.Now()
		if err := store.Put(r.Context(), key, file, header.Size, contentType); err != nil {
			metrics.StorageErrorsTotal.WithLabelValues(string(storage.CategoryOf(err))).Inc()
			metrics.UploadsTotal.WithLabelValues(string(kind), "simple", "failure").Inc()
			status, message := storageErrorResponse(err)
			sendError(w, message, err.Error(), status)
			return
		}
		metrics.StoragePushDuration.Observe(time.Since(pushStart).Seconds())
		metrics.UploadsTotal.WithLabelValues(string(kind), "simple", "success").Inc()
		metrics.UploadSizeBytes.Observe(float64(header.Size))

		publicURL := store.PublicURL(key)

		slog.Info("simple upload complete",
			"kind", kind,
			"key", key,
			"size", header.Size,
			"content_type", contentType,
			"ip", getClientIP(r),
		)

		writeJSON(w, http.StatusOK, models.UploadResponse{
			Success: true,
			File: &models.MediaFile{
				ID:           key,
				Name:         utils.SanitizeFilename(header.Filename),
				URL:          publicURL,
				ThumbnailURL: publicURL,
				WebViewLink:  publicURL,
				Size:         header.Size,
				Type:         contentType,
			},
		})
	}
}

// sniffContentType detects the content type from the file header and rewinds
// the reader. Returns fallback when the content is unrecognizable or the
// reader cannot seek back.
func sniffContentType(file multipart.File, fallback string) string {
	head := make([]byte, 3072)
	n, _ := io.ReadFull(file, head)
	if _, err := file.Seek(0, io.SeekStart); err != nil || n == 0 {
		return fallback
	}
	detected := utils.DetectMimeType(head[:n])
	if detected == "" || detected == "application/octet-stream" {
		return fallback
	}
	return detected
}
