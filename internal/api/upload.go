package api

import (
	"context"
	"io"
)

// UploadImage pushes an image to the hosting endpoint and returns the
// public URL the backend assigned to it.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.uploadFile(ctx, "/api/v1/upload/image", "image", filename, r, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
