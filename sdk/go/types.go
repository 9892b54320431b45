package weeding

import "time"

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the upload service root, e.g. "https://media.example.com".
	BaseURL string

	// Timeout bounds each HTTP request. Defaults to 5 minutes, which has to
	// cover pushing one full chunk on a slow connection.
	Timeout time.Duration

	// ChunkSize is the payload size per chunk request. Defaults to 4MB to
	// match the server's per-request body ceiling.
	ChunkSize int64

	// SimpleUploadLimit is the largest file sent in one request. Files above
	// it take the chunked path. Defaults to 4MB.
	SimpleUploadLimit int64

	// InsecureSkipVerify disables TLS certificate verification. Test use only.
	InsecureSkipVerify bool
}

// MediaKind selects which gallery a file belongs to.
type MediaKind string

const (
	KindPhoto MediaKind = "photo"
	KindVideo MediaKind = "video"
)

// File describes one stored media file as the service reports it.
type File struct {
	// ID is the object key, unique per file.
	ID string `json:"id"`
	// Name is the sanitized file name.
	Name string `json:"name"`
	// URL is the publicly resolvable location of the file.
	URL string `json:"url"`
	// ThumbnailURL is the poster image for videos, or the file itself for photos.
	ThumbnailURL string `json:"thumbnailUrl"`
	// WebViewLink is the browser-facing link.
	WebViewLink string `json:"webViewLink"`
	// Size is the file size in bytes.
	Size int64 `json:"size"`
	// Type is the MIME type.
	Type string `json:"type"`
}

// UploadResult is the outcome of one successful upload.
type UploadResult struct {
	File    File
	Message string
}

// UploadProgress reports chunked upload progress to the OnProgress callback.
type UploadProgress struct {
	// BytesUploaded counts payload bytes acknowledged so far.
	BytesUploaded int64
	// TotalBytes is the file size.
	TotalBytes int64
	// Percentage is BytesUploaded over TotalBytes, 0-100.
	Percentage int
	// CurrentChunk is the 1-based chunk just acknowledged. Zero on the
	// simple upload path.
	CurrentChunk int
	// TotalChunks is the chunk count. Zero on the simple upload path.
	TotalChunks int
}

// UploadOptions tunes a single upload.
type UploadOptions struct {
	// ThumbnailData is an optional poster image for videos, as a base64
	// data URL ("data:image/jpeg;base64,..."). Sent with the final chunk.
	ThumbnailData string

	// OnProgress, if set, is called after each acknowledged chunk.
	OnProgress func(UploadProgress)
}

// ListPage is one page of a gallery listing.
type ListPage struct {
	Files []File
	// HasMore reports whether another page exists.
	HasMore bool
	// NextCursor fetches the next page when HasMore is true.
	NextCursor string
}

// BatchOutcome summarizes a batch upload.
type BatchOutcome string

const (
	// BatchAllSucceeded means every file uploaded.
	BatchAllSucceeded BatchOutcome = "all"
	// BatchPartial means some files uploaded and some failed.
	BatchPartial BatchOutcome = "partial"
	// BatchAllFailed means no file uploaded.
	BatchAllFailed BatchOutcome = "failed"
)

// BatchFailure records one file that failed during a batch upload.
type BatchFailure struct {
	Path string
	Err  error
}

// BatchResult is the outcome of a batch upload. Files fail independently:
// one bad file never aborts the rest of the batch.
type BatchResult struct {
	Uploaded []UploadResult
	Failed   []BatchFailure
	Outcome  BatchOutcome
}

// Succeeded returns how many files uploaded.
func (r *BatchResult) Succeeded() int { return len(r.Uploaded) }

// FailedCount returns how many files failed.
func (r *BatchResult) FailedCount() int { return len(r.Failed) }

// apiUploadResponse mirrors the server's upload response body.
type apiUploadResponse struct {
	Success bool   `json:"success"`
	File    *File  `json:"file"`
	Message string `json:"message"`
	// Chunk acknowledgements carry these instead of a file
	ReceivedChunks int `json:"receivedChunks"`
	TotalChunks    int `json:"totalChunks"`
}

// apiListResponse mirrors the server's listing response body.
type apiListResponse struct {
	Success    bool   `json:"success"`
	Data       []File `json:"data"`
	Pagination struct {
		HasMore    bool   `json:"hasMore"`
		NextCursor string `json:"nextCursor"`
		Limit      int    `json:"limit"`
		Count      int    `json:"count"`
	} `json:"pagination"`
}
