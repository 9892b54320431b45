package weeding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListPhotos retrieves one page of the photo gallery, newest first.
// A limit of 0 uses the server default. Pass the previous page's
// NextCursor to continue.
//
// Example:
//
//	page, err := client.ListPhotos(ctx, 20, "")
//	for _, f := range page.Files {
//	    fmt.Printf("%s (%d bytes)\n", f.Name, f.Size)
//	}
func (c *Client) ListPhotos(ctx context.Context, limit int, cursor string) (*ListPage, error) {
	return c.list(ctx, "/api/photos", limit, cursor)
}

// ListVideos retrieves one page of the video gallery, newest first, with
// each video's poster image resolved into ThumbnailURL.
func (c *Client) ListVideos(ctx context.Context, limit int, cursor string) (*ListPage, error) {
	return c.list(ctx, "/api/videos", limit, cursor)
}

func (c *Client) list(ctx context.Context, path string, limit int, cursor string) (*ListPage, error) {
	if limit < 0 || limit > maxListLimit {
		return nil, &ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("must be between 0 and %d", maxListLimit),
		}
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := c.request(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var apiResp apiListResponse
	if err := handleResponse(resp, &apiResp); err != nil {
		return nil, err
	}

	return &ListPage{
		Files:      apiResp.Data,
		HasMore:    apiResp.Pagination.HasMore,
		NextCursor: apiResp.Pagination.NextCursor,
	}, nil
}
