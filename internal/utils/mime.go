package utils

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// extensionMimeTypes maps known media extensions to content types. The
// extension wins over the client-declared type: Android and Samsung devices
// in particular report wrong or generic MIME types for their own recordings,
// and a wrong content type makes browsers download instead of play.
var extensionMimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".qt":   "video/quicktime",
	".3gp":  "video/3gpp",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// ResolveContentType picks the content type for a stored file. Precedence:
// the extension table, then the client-declared type, then the fallback.
func ResolveContentType(filename, declaredType, fallback string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mt, ok := extensionMimeTypes[ext]; ok {
		return mt
	}
	if declaredType != "" {
		return declaredType
	}
	return fallback
}

// DetectMimeType sniffs the MIME type from file content. Used when neither
// the extension nor the declared type gives an answer.
func DetectMimeType(data []byte) string {
	mtype := mimetype.Detect(data)
	return mtype.String()
}
