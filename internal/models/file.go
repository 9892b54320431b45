package models

// MediaKind selects the object-key prefix and listing defaults
type MediaKind string

const (
	KindPhoto MediaKind = "photos"
	KindVideo MediaKind = "videos"
)

// MediaFile is the public record returned for an uploaded or listed file.
// ID is the object-store key; URL and WebViewLink both resolve through the
// public base URL.
type MediaFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	WebViewLink  string `json:"webViewLink"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
}

// UploadResponse is returned by the simple upload endpoints and by the
// chunk endpoint on the final chunk
type UploadResponse struct {
	Success bool       `json:"success"`
	File    *MediaFile `json:"file,omitempty"`
	Message string     `json:"message,omitempty"`
}

// ChunkAckResponse acknowledges a non-final chunk
type ChunkAckResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ReceivedChunks int    `json:"receivedChunks"`
	TotalChunks    int    `json:"totalChunks"`
}

// ErrorResponse is the JSON error response. RetryAfter is only set on
// session-ceiling rejections.
type ErrorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// Pagination describes the cursor state of a listing response
type Pagination struct {
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
	Limit      int    `json:"limit"`
	Count      int    `json:"count"`
}

// ListResponse is returned by the gallery listing endpoints
type ListResponse struct {
	Success    bool        `json:"success"`
	Data       []MediaFile `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// HealthResponse is the JSON response for the health check endpoint
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Storage       string `json:"storage"`
	OpenSessions  int    `json:"openSessions"`
}
