package handlers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Charlelielataste/weeding/internal/config"
	"github.com/Charlelielataste/weeding/internal/metrics"
	"github.com/Charlelielataste/weeding/internal/models"
	"github.com/Charlelielataste/weeding/internal/scratch"
	"github.com/Charlelielataste/weeding/internal/session"
	"github.com/Charlelielataste/weeding/internal/storage"
	"github.com/Charlelielataste/weeding/internal/utils"
)

const (
	// retryAfterSeconds is the backpressure hint sent with ceiling rejections
	retryAfterSeconds = 30

	// multipartOverhead is the headroom above the chunk payload allowed for
	// multipart boundaries and metadata fields
	multipartOverhead = 1024 * 1024

	// maxTotalChunks bounds the declared chunk count
	maxTotalChunks = 10000
)

// ChunkUploadHandler handles one chunk per request for the given media kind.
// The session is created on the first chunk (subject to the concurrency
// ceiling); the final chunk triggers assembly and the blob-store push
// synchronously before responding.
func ChunkUploadHandler(cfg *config.Config, registry *session.Registry, scr scratch.Storage, store storage.ObjectStore, kind models.MediaKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", "", http.StatusMethodNotAllowed)
			return
		}

		// Reject chunks above the platform body ceiling before buffering them
		r.Body = http.MaxBytesReader(w, r.Body, cfg.ChunkSize+multipartOverhead)

		if err := r.ParseMultipartForm(cfg.ChunkSize + multipartOverhead); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				sendError(w,
					"Chunk too large",
					fmt.Sprintf("a single chunk must fit in %d bytes", cfg.ChunkSize),
					http.StatusRequestEntityTooLarge,
				)
				return
			}
			sendError(w, "Invalid multipart form", err.Error(), http.StatusBadRequest)
			return
		}
		// The multipart parser may have spooled the chunk to a platform temp
		// file; drop it as soon as the request is done
		defer r.MultipartForm.RemoveAll()

		uploadID := r.FormValue("uploadId")
		fileName := r.FormValue("fileName")
		fileType := r.FormValue("fileType")

		if uploadID == "" || fileName == "" {
			sendError(w, "Missing required parameters", "uploadId and fileName are required", http.StatusBadRequest)
			return
		}
		if err := validateUploadID(uploadID); err != nil {
			sendError(w, "Invalid uploadId", err.Error(), http.StatusBadRequest)
			return
		}

		chunkIndex, err := strconv.Atoi(r.FormValue("chunkIndex"))
		if err != nil {
			sendError(w, "Invalid chunkIndex", "chunkIndex must be an integer", http.StatusBadRequest)
			return
		}
		totalChunks, err := strconv.Atoi(r.FormValue("totalChunks"))
		if err != nil {
			sendError(w, "Invalid totalChunks", "totalChunks must be an integer", http.StatusBadRequest)
			return
		}
		if totalChunks <= 0 || totalChunks > maxTotalChunks {
			sendError(w, "Invalid totalChunks", fmt.Sprintf("totalChunks must be in [1,%d]", maxTotalChunks), http.StatusBadRequest)
			return
		}
		if chunkIndex < 0 || chunkIndex >= totalChunks {
			sendError(w, "Invalid chunkIndex", fmt.Sprintf("chunkIndex must be in [0,%d)", totalChunks), http.StatusBadRequest)
			return
		}

		chunk, _, err := r.FormFile("chunk")
		if err != nil {
			sendError(w, "Missing chunk payload", "multipart field 'chunk' is required", http.StatusBadRequest)
			return
		}
		defer chunk.Close()

		ok, reason, err := utils.CheckDiskSpace(cfg.TempDir, cfg.ChunkSize)
		if err != nil {
			slog.Error("disk space check failed", "path", cfg.TempDir, "error", err)
			sendError(w, "Failed to check disk space", err.Error(), http.StatusInternalServerError)
			return
		}
		if !ok {
			slog.Warn("chunk rejected, scratch disk low", "upload_id", uploadID, "reason", reason)
			sendError(w, "Insufficient storage", reason, http.StatusInsufficientStorage)
			return
		}

		sess, _, err := registry.GetOrCreate(uploadID, fileName, fileType, kind, totalChunks)
		if err != nil {
			if errors.Is(err, session.ErrTooManySessions) {
				metrics.SessionRejectionsTotal.Inc()
				sendBackpressure(w,
					"Too many concurrent uploads",
					"the server is busy, retry shortly",
					retryAfterSeconds,
				)
				return
			}
			sendError(w, "Failed to open upload session", err.Error(), http.StatusInternalServerError)
			return
		}

		// Terminal outcomes (success or any error past this point) tear the
		// session down exactly once; Remove reports who got there first
		teardown := func() {
			if registry.Remove(uploadID) {
				if err := scr.RemoveSession(uploadID); err != nil {
					slog.Warn("session scratch cleanup failed",
						"upload_id", uploadID,
						"error", err,
					)
				}
			}
		}

		if _, err := scr.SaveChunk(uploadID, chunkIndex, chunk); err != nil {
			slog.Error("chunk persist failed",
				"upload_id", uploadID,
				"chunk_index", chunkIndex,
				"error", err,
			)
			teardown()
			sendError(w, "Failed to save chunk", persistErrorDetails(err), http.StatusInternalServerError)
			return
		}

		// Video uploads may carry the poster image with any chunk, typically
		// the last one
		if kind == models.KindVideo {
			sess.SetThumbnail(r.FormValue("thumbnailData"))
		}

		count, final, err := sess.MarkReceived(chunkIndex)
		if err != nil {
			teardown()
			sendError(w, "Invalid chunkIndex", err.Error(), http.StatusBadRequest)
			return
		}

		metrics.ChunksReceivedTotal.WithLabelValues(string(kind)).Inc()

		if !final {
			slog.Debug("chunk received",
				"upload_id", uploadID,
				"chunk_index", chunkIndex,
				"received", count,
				"total", totalChunks,
				"ip", getClientIP(r),
			)
			writeJSON(w, http.StatusOK, models.ChunkAckResponse{
				Success:        true,
				Message:        fmt.Sprintf("Chunk %d/%d received", chunkIndex+1, totalChunks),
				ReceivedChunks: count,
				TotalChunks:    totalChunks,
			})
			return
		}

		// All chunks are on disk: assemble, push, clean up, respond
		file, err := finishUpload(r, cfg, scr, store, sess)
		teardown()
		if err != nil {
			metrics.UploadsTotal.WithLabelValues(string(kind), "chunked", "failure").Inc()
			status, message := storageErrorResponse(err)
			sendError(w, message, err.Error(), status)
			return
		}

		metrics.UploadsTotal.WithLabelValues(string(kind), "chunked", "success").Inc()
		metrics.UploadSizeBytes.Observe(float64(file.Size))

		writeJSON(w, http.StatusOK, models.UploadResponse{
			Success: true,
			File:    file,
			Message: "Upload complete",
		})
	}
}

// finishUpload assembles the session's chunks and pushes the result to the
// blob store. The caller owns session teardown.
func finishUpload(r *http.Request, cfg *config.Config, scr scratch.Storage, store storage.ObjectStore, sess *session.Session) (*models.MediaFile, error) {
	assemblyStart := time.Now()
	assembledPath, size, err := scr.Assemble(sess.UploadID, sess.TotalChunks)
	if err != nil {
		return nil, fmt.Errorf("assembly failed: %w", err)
	}
	metrics.AssemblyDuration.Observe(time.Since(assemblyStart).Seconds())

	fallback := "image/jpeg"
	if sess.Kind == models.KindVideo {
		fallback = "video/mp4"
	}
	contentType := utils.ResolveContentType(sess.FileName, sess.FileType, fallback)
	key := utils.ObjectKey(sess.Kind, utils.SessionComponent(sess.UploadID), sess.FileName)

	assembled, err := os.Open(assembledPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open assembled file: %w", err)
	}
	defer assembled.Close()

	pushStart := time.Now()
	if err := store.Put(r.Context(), key, assembled, size, contentType); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues(string(storage.CategoryOf(err))).Inc()
		return nil, err
	}
	metrics.StoragePushDuration.Observe(time.Since(pushStart).Seconds())

	publicURL := store.PublicURL(key)
	thumbnailURL := publicURL
	if url := pushThumbnail(r, store, sess, key); url != "" {
		thumbnailURL = url
	}

	slog.Info("chunked upload complete",
		"upload_id", sess.UploadID,
		"kind", sess.Kind,
		"key", key,
		"size", size,
		"content_type", contentType,
	)

	return &models.MediaFile{
		ID:           key,
		Name:         utils.SanitizeFilename(sess.FileName),
		URL:          publicURL,
		ThumbnailURL: thumbnailURL,
		WebViewLink:  publicURL,
		Size:         size,
		Type:         contentType,
	}, nil
}

// pushThumbnail stores the poster image a video session carried, if any.
// Best effort: a thumbnail failure never fails the video upload.
func pushThumbnail(r *http.Request, store storage.ObjectStore, sess *session.Session, videoKey string) string {
	data := sess.Thumbnail()
	if data == "" {
		return ""
	}

	// Payload arrives as a data URL; drop the "data:image/jpeg;base64," prefix
	if idx := strings.Index(data, ","); idx >= 0 {
		data = data[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		slog.Warn("thumbnail payload is not valid base64", "upload_id", sess.UploadID, "error", err)
		return ""
	}

	key := utils.ThumbnailKeyFor(videoKey)
	if err := store.Put(r.Context(), key, bytes.NewReader(decoded), int64(len(decoded)), "image/jpeg"); err != nil {
		slog.Warn("thumbnail push failed", "upload_id", sess.UploadID, "key", key, "error", err)
		return ""
	}

	slog.Info("thumbnail stored", "upload_id", sess.UploadID, "key", key, "size", len(decoded))
	return store.PublicURL(key)
}

// validateUploadID rejects ids that could escape the scratch directory
func validateUploadID(uploadID string) error {
	if len(uploadID) > 128 {
		return fmt.Errorf("uploadId too long")
	}
	if strings.Contains(uploadID, "..") || strings.ContainsAny(uploadID, "/\\") {
		return fmt.Errorf("uploadId must not contain path separators")
	}
	if strings.ContainsRune(uploadID, '\x00') {
		return fmt.Errorf("uploadId must not contain null bytes")
	}
	return nil
}

// persistErrorDetails maps a scratch persist failure to a diagnostic the
// client can distinguish
func persistErrorDetails(err error) string {
	var perr *scratch.PersistError
	if !errors.As(err, &perr) {
		return err.Error()
	}
	switch perr.Category {
	case scratch.CategoryDiskFull:
		return "server scratch disk is full"
	case scratch.CategoryMissingFile:
		return "session temp files were lost"
	default:
		return err.Error()
	}
}

// storageErrorResponse maps a terminal upload failure to an HTTP status and
// user-facing message
func storageErrorResponse(err error) (int, string) {
	switch storage.CategoryOf(err) {
	case storage.CategoryCredentials:
		return http.StatusInternalServerError, "Storage authentication failed, check credentials"
	case storage.CategoryBucketNotFound:
		return http.StatusInternalServerError, "Storage bucket not found, check configuration"
	case storage.CategoryTimeout:
		return http.StatusGatewayTimeout, "Storage push timed out"
	case storage.CategoryNetwork:
		return http.StatusBadGateway, "Storage unreachable"
	default:
		return http.StatusInternalServerError, "Upload failed"
	}
}
