package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Charlelielataste/weeding/internal/models"
)

// ThumbnailPrefix is the key prefix for video poster images
const ThumbnailPrefix = "thumbnails"

// ObjectKey builds the storage key for an uploaded file:
//
//	<mediaKind>/<unixMillis>_<component>_<sanitizedName>
//
// The middle component keeps keys collision-free across concurrent uploads
// even when original names and timestamps collide. Chunked uploads pass the
// session component derived from their upload id; the simple path passes ""
// and gets a random component instead.
func ObjectKey(kind models.MediaKind, sessionComponent, originalName string) string {
	component := sessionComponent
	if component == "" {
		component = uuid.NewString()[:8]
	}
	return fmt.Sprintf("%s/%d_%s_%s", kind, time.Now().UnixMilli(), component, SanitizeFilename(originalName))
}

// ThumbnailKeyFor derives the poster-image key from a video's key, keeping
// the timestamp and component identical so listings can pair the two by
// basename.
func ThumbnailKeyFor(videoKey string) string {
	base := videoKey
	if idx := strings.Index(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if ext := strings.LastIndex(base, "."); ext > 0 {
		base = base[:ext]
	}
	return fmt.Sprintf("%s/%s.jpg", ThumbnailPrefix, base)
}

// BaseName reduces a storage key to the portion shared between a video and
// its thumbnail: the prefix directory, the timestamp and the extension are
// stripped, leaving "<component>_<name>".
func BaseName(key string) string {
	base := key
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.Index(base, "_"); idx >= 0 {
		base = base[idx+1:]
	}
	if ext := strings.LastIndex(base, "."); ext > 0 {
		base = base[:ext]
	}
	return base
}

// SessionComponent extracts the random suffix of a client-generated upload id
// ("upload_<millis>_<suffix>"). Ids in any other shape are sanitized and used
// whole so two sessions still cannot share a component.
func SessionComponent(uploadID string) string {
	parts := strings.Split(uploadID, "_")
	if len(parts) == 3 && parts[0] == "upload" && parts[2] != "" {
		return SanitizeFilename(parts[2])
	}
	return SanitizeFilename(uploadID)
}
