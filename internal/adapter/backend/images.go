package backend

import (
	"context"
	"net/url"
)

// ImageIndices lists the image indices available for context ("general" or
// a storm id) on date.
func (c *Client) ImageIndices(ctx context.Context, date, imageContext string) ([]int, error) {
	var list struct {
		Images []struct {
			Index int `json:"index"`
		} `json:"images"`
	}
	path := "/api/date/" + url.PathEscape(date) + "/maps/" + url.PathEscape(imageContext) + "/list"
	if err := c.getJSON(ctx, request{endpoint: "image_list", op: "image list", path: path, dated: true}, &list); err != nil {
		return nil, err
	}

	indices := make([]int, len(list.Images))
	for i, img := range list.Images {
		indices[i] = img.Index
	}
	return indices, nil
}

// CheckLatestImage confirms the latest map exists: the general map when id
// is empty, otherwise the map of storm id. The image body is discarded.
func (c *Client) CheckLatestImage(ctx context.Context, id string) error {
	path := "/api/maps"
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	_, err := c.get(ctx, request{endpoint: "latest_image", op: "latest image", path: path})
	return err
}
