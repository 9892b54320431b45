package weeding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// maxBatchFiles caps one batch; galleries are uploaded album by album
	maxBatchFiles = 50

	// maxBatchBytes caps one batch's total payload (300MB)
	maxBatchBytes = 300 * 1024 * 1024
)

// uploadIDAlphabet matches the browser client's session id suffix
const uploadIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newUploadID builds a session id of the form upload_<unixMillis>_<suffix>.
// The suffix lands in the stored object key, so it stays short.
func newUploadID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = uploadIDAlphabet[rand.IntN(len(uploadIDAlphabet))]
	}
	return fmt.Sprintf("upload_%d_%s", time.Now().UnixMilli(), suffix)
}

// endpoints per media kind
func simplePath(kind MediaKind) string {
	if kind == KindVideo {
		return "/api/upload-video"
	}
	return "/api/upload-photo"
}

func chunkPath(kind MediaKind) string {
	if kind == KindVideo {
		return "/api/upload-chunk"
	}
	return "/api/upload-photo-chunk"
}

// Upload uploads one file. Files at or below the client's simple-upload
// limit go up in a single request; larger files are split into chunks.
//
// Example:
//
//	result, err := client.Upload(ctx, "/photos/ceremony.jpg", weeding.KindPhoto, &weeding.UploadOptions{
//	    OnProgress: func(p weeding.UploadProgress) {
//	        fmt.Printf("upload: %d%%\n", p.Percentage)
//	    },
//	})
func (c *Client) Upload(ctx context.Context, filePath string, kind MediaKind, opts *UploadOptions) (*UploadResult, error) {
	if opts == nil {
		opts = &UploadOptions{}
	}
	if kind != KindPhoto && kind != KindVideo {
		return nil, &ValidationError{Field: "kind", Message: "must be photo or video"}
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("getting file info: %w", err)
	}
	if err := validateFilename(filepath.Base(absPath)); err != nil {
		return nil, err
	}

	if fileInfo.Size() > c.simpleUploadLimit {
		return c.uploadChunked(ctx, absPath, fileInfo.Size(), kind, opts)
	}
	return c.uploadSimple(ctx, absPath, fileInfo.Size(), kind, opts)
}

// uploadSimple sends the whole file in one multipart request.
func (c *Client) uploadSimple(ctx context.Context, filePath string, fileSize int64, kind MediaKind, opts *UploadOptions) (*UploadResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copying file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	resp, err := c.request(ctx, "POST", simplePath(kind), &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var apiResp apiUploadResponse
	if err := handleResponse(resp, &apiResp); err != nil {
		return nil, err
	}
	if apiResp.File == nil {
		return nil, fmt.Errorf("server response carried no file object")
	}

	if opts.OnProgress != nil {
		opts.OnProgress(UploadProgress{
			BytesUploaded: fileSize,
			TotalBytes:    fileSize,
			Percentage:    100,
		})
	}

	return &UploadResult{File: *apiResp.File, Message: apiResp.Message}, nil
}

// uploadChunked splits the file into fixed-size chunks and sends them in
// order, one request each. The final chunk's response carries the stored
// file; any failed chunk abandons the session.
func (c *Client) uploadChunked(ctx context.Context, filePath string, fileSize int64, kind MediaKind, opts *UploadOptions) (*UploadResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	uploadID := newUploadID()
	fileName := filepath.Base(filePath)
	fileType := detectFileType(filePath)
	totalChunks := int((fileSize + c.chunkSize - 1) / c.chunkSize)

	var bytesUploaded int64
	chunkBuffer := make([]byte, c.chunkSize)

	for chunkIndex := 0; chunkIndex < totalChunks; chunkIndex++ {
		n, err := io.ReadFull(file, chunkBuffer)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return nil, &ChunkedUploadError{
				UploadID:   uploadID,
				ChunkIndex: chunkIndex,
				Err:        fmt.Errorf("reading chunk: %w", err),
			}
		}

		final := chunkIndex == totalChunks-1

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		writer.WriteField("uploadId", uploadID)
		writer.WriteField("chunkIndex", strconv.Itoa(chunkIndex))
		writer.WriteField("totalChunks", strconv.Itoa(totalChunks))
		writer.WriteField("fileName", fileName)
		if fileType != "" {
			writer.WriteField("fileType", fileType)
		}
		if final && kind == KindVideo && opts.ThumbnailData != "" {
			writer.WriteField("thumbnailData", opts.ThumbnailData)
		}

		part, err := writer.CreateFormFile("chunk", "blob")
		if err != nil {
			return nil, &ChunkedUploadError{UploadID: uploadID, ChunkIndex: chunkIndex, Err: err}
		}
		if _, err := part.Write(chunkBuffer[:n]); err != nil {
			return nil, &ChunkedUploadError{UploadID: uploadID, ChunkIndex: chunkIndex, Err: err}
		}
		if err := writer.Close(); err != nil {
			return nil, &ChunkedUploadError{UploadID: uploadID, ChunkIndex: chunkIndex, Err: err}
		}

		resp, err := c.request(ctx, "POST", chunkPath(kind), &buf, writer.FormDataContentType())
		if err != nil {
			return nil, &ChunkedUploadError{UploadID: uploadID, ChunkIndex: chunkIndex, Err: err}
		}

		var apiResp apiUploadResponse
		if err := handleResponse(resp, &apiResp); err != nil {
			return nil, &ChunkedUploadError{UploadID: uploadID, ChunkIndex: chunkIndex, Err: err}
		}

		bytesUploaded += int64(n)
		if opts.OnProgress != nil {
			opts.OnProgress(UploadProgress{
				BytesUploaded: bytesUploaded,
				TotalBytes:    fileSize,
				Percentage:    int(float64(bytesUploaded) / float64(fileSize) * 100),
				CurrentChunk:  chunkIndex + 1,
				TotalChunks:   totalChunks,
			})
		}

		if final {
			// Completion is the presence of the stored file, not a flag
			if apiResp.File == nil {
				return nil, &ChunkedUploadError{
					UploadID:   uploadID,
					ChunkIndex: chunkIndex,
					Err:        fmt.Errorf("server acknowledged the final chunk without finalizing"),
				}
			}
			return &UploadResult{File: *apiResp.File, Message: apiResp.Message}, nil
		}
	}

	return nil, &ChunkedUploadError{UploadID: uploadID, Err: fmt.Errorf("file is empty")}
}

// UploadBatch uploads several files of one kind. Files fail independently;
// the result reports which succeeded and which did not.
func (c *Client) UploadBatch(ctx context.Context, filePaths []string, kind MediaKind, opts *UploadOptions) (*BatchResult, error) {
	if len(filePaths) == 0 {
		return nil, &ValidationError{Field: "filePaths", Message: "cannot be empty"}
	}
	if len(filePaths) > maxBatchFiles {
		return nil, fmt.Errorf("%w: %d files exceeds the %d-file cap", ErrBatchLimit, len(filePaths), maxBatchFiles)
	}

	var totalBytes int64
	for _, p := range filePaths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("getting file info for %s: %w", p, err)
		}
		totalBytes += info.Size()
	}
	if totalBytes > maxBatchBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d-byte cap", ErrBatchLimit, totalBytes, maxBatchBytes)
	}

	result := &BatchResult{}
	for _, p := range filePaths {
		uploaded, err := c.Upload(ctx, p, kind, opts)
		if err != nil {
			result.Failed = append(result.Failed, BatchFailure{Path: p, Err: err})
			continue
		}
		result.Uploaded = append(result.Uploaded, *uploaded)
	}

	switch {
	case len(result.Failed) == 0:
		result.Outcome = BatchAllSucceeded
	case len(result.Uploaded) == 0:
		result.Outcome = BatchAllFailed
	default:
		result.Outcome = BatchPartial
	}
	return result, nil
}

// detectFileType sniffs the file's MIME type from its content. An empty
// result leaves the server to resolve the type from the extension.
func detectFileType(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	return mtype.String()
}
