package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/Charlelielataste/weeding/internal/metrics"
	"github.com/Charlelielataste/weeding/internal/models"
	"github.com/Charlelielataste/weeding/internal/storage"
	"github.com/Charlelielataste/weeding/internal/utils"
)

const (
	defaultPhotoPageSize = 20
	defaultVideoPageSize = 10
	maxPageSize          = 100

	// thumbnailScanLimit bounds the thumbnail prefix scan used to join
	// posters to videos; thumbnails are tiny so one large page is fine
	thumbnailScanLimit = 1000
)

// ListMediaHandler serves the paginated gallery for one media kind. Video
// pages join each record to its poster image by basename; a video without a
// poster falls back to its own URL.
func ListMediaHandler(store storage.ObjectStore, kind models.MediaKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", "", http.StatusMethodNotAllowed)
			return
		}

		limit := defaultPhotoPageSize
		if kind == models.KindVideo {
			limit = defaultVideoPageSize
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				sendError(w, "Invalid limit", "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			if n > maxPageSize {
				n = maxPageSize
			}
			limit = n
		}
		cursor := r.URL.Query().Get("cursor")

		page, err := store.List(r.Context(), string(kind)+"/", limit, cursor)
		if err != nil {
			metrics.StorageErrorsTotal.WithLabelValues(string(storage.CategoryOf(err))).Inc()
			status, message := storageErrorResponse(err)
			sendError(w, message, err.Error(), status)
			return
		}

		var thumbnails map[string]string
		if kind == models.KindVideo {
			thumbnails = listThumbnails(r, store)
		}

		fallback := "image/jpeg"
		if kind == models.KindVideo {
			fallback = "video/mp4"
		}

		// Newest first
		sort.SliceStable(page.Objects, func(i, j int) bool {
			return page.Objects[i].LastModified.After(page.Objects[j].LastModified)
		})

		files := make([]models.MediaFile, 0, len(page.Objects))
		for _, obj := range page.Objects {
			// The bare prefix shows up as an object on some providers
			if obj.Key == string(kind)+"/" {
				continue
			}

			publicURL := store.PublicURL(obj.Key)
			thumbnailURL := publicURL
			if url, ok := thumbnails[utils.BaseName(obj.Key)]; ok {
				thumbnailURL = url
			}

			name := obj.Key
			if idx := len(string(kind)) + 1; idx < len(obj.Key) {
				name = obj.Key[idx:]
			}

			files = append(files, models.MediaFile{
				ID:           obj.Key,
				Name:         name,
				URL:          publicURL,
				ThumbnailURL: thumbnailURL,
				WebViewLink:  publicURL,
				Size:         obj.Size,
				Type:         utils.ResolveContentType(obj.Key, "", fallback),
			})
		}

		writeJSON(w, http.StatusOK, models.ListResponse{
			Success: true,
			Data:    files,
			Pagination: models.Pagination{
				HasMore:    page.HasMore,
				NextCursor: page.NextCursor,
				Limit:      limit,
				Count:      len(files),
			},
		})
	}
}

// listThumbnails maps poster basenames to URLs. Failures degrade to videos
// using their own URL as poster, never to a failed listing.
func listThumbnails(r *http.Request, store storage.ObjectStore) map[string]string {
	page, err := store.List(r.Context(), utils.ThumbnailPrefix+"/", thumbnailScanLimit, "")
	if err != nil {
		slog.Warn("thumbnail listing failed", "error", err)
		return nil
	}

	thumbs := make(map[string]string, len(page.Objects))
	for _, obj := range page.Objects {
		if obj.Key == utils.ThumbnailPrefix+"/" {
			continue
		}
		thumbs[utils.BaseName(obj.Key)] = store.PublicURL(obj.Key)
	}
	return thumbs
}
