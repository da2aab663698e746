package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Thumbnail is one dataset entry.  Features maps a feature family ("color",
// "face", ...) to its extracted values and is nil until extraction ran.
type Thumbnail struct {
	ID                int64                             `json:"id"`
	Group             string                            `json:"group"`
	FilePath          string                            `json:"file_path"`
	Title             *string                           `json:"title"`
	Channel           *string                           `json:"channel"`
	Year              *int                              `json:"year"`
	Views             *int64                            `json:"views"`
	CTR               *float64                          `json:"ctr"`
	FeaturesExtracted bool                              `json:"features_extracted"`
	Features          map[string]map[string]interface{} `json:"features"`
	ClusterID         *int                              `json:"cluster_id"`
}

// ThumbnailList is one page of thumbnails.
type ThumbnailList struct {
	Items    []Thumbnail `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// PipelineStatus is the feature-extraction progress.
type PipelineStatus struct {
	TotalThumbnails      int     `json:"total_thumbnails"`
	Processed            int     `json:"processed"`
	Unprocessed          int     `json:"unprocessed"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// ListParams filters and pages /thumbnails.  Nil pointers and empty strings
// are omitted from the query.
type ListParams struct {
	Group    string
	YearMin  *int
	YearMax  *int
	HasText  *bool
	MinFaces *int
	Sort     string
	Order    string
	Page     int
	PageSize int
}

// Query encodes p, applying paging defaults.
func (p ListParams) Query() (url.Values, error) {
	q := url.Values{}
	if p.Group != "" {
		q.Set("group", p.Group)
	}
	if p.YearMin != nil {
		q.Set("year_min", strconv.Itoa(*p.YearMin))
	}
	if p.YearMax != nil {
		q.Set("year_max", strconv.Itoa(*p.YearMax))
	}
	if p.YearMin != nil && p.YearMax != nil && *p.YearMin > *p.YearMax {
		return nil, invalidArg("year_min must not exceed year_max")
	}
	if p.HasText != nil {
		q.Set("has_text", strconv.FormatBool(*p.HasText))
	}
	if p.MinFaces != nil {
		q.Set("min_faces", strconv.Itoa(*p.MinFaces))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Order != "" {
		if p.Order != "asc" && p.Order != "desc" {
			return nil, invalidArg("order must be asc or desc")
		}
		q.Set("order", p.Order)
	}

	page, pageSize := p.Page, p.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return q, nil
}

// ThumbnailsClient wraps the /thumbnails endpoints.
type ThumbnailsClient struct {
	client *Client
}

// List returns one page of thumbnails.
// GET /thumbnails
func (tc *ThumbnailsClient) List(ctx context.Context, params ListParams) (*ThumbnailList, error) {
	q, err := params.Query()
	if err != nil {
		return nil, err
	}
	var resp ThumbnailList
	if err := tc.client.get(ctx, "/thumbnails", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns one thumbnail.
// GET /thumbnails/{id}
func (tc *ThumbnailsClient) Get(ctx context.Context, id int64) (*Thumbnail, error) {
	if id <= 0 {
		return nil, invalidArg("id must be positive")
	}
	var resp Thumbnail
	if err := tc.client.get(ctx, "/thumbnails/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PipelineStatus returns feature-extraction progress.
// GET /thumbnails/pipeline/status
func (tc *ThumbnailsClient) PipelineStatus(ctx context.Context) (*PipelineStatus, error) {
	var resp PipelineStatus
	if err := tc.client.get(ctx, "/thumbnails/pipeline/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ImageURL maps a stored file path to the URL the service serves it under.
// Paths without a thumbnails/ segment are returned unchanged.
func (tc *ThumbnailsClient) ImageURL(filePath string) string {
	return ImageURL(tc.client.baseURL, tc.client.staticPrefix, filePath)
}

// ImageURL joins base, prefix and the part of filePath after its
// thumbnails/ directory.
func ImageURL(base, prefix, filePath string) string {
	rest, ok := afterThumbnailsDir(filePath)
	if !ok {
		return filePath
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return base + prefix + rest
}

func afterThumbnailsDir(filePath string) (string, bool) {
	if i := strings.Index(filePath, "/thumbnails/"); i >= 0 {
		return filePath[i+len("/thumbnails/"):], true
	}
	if strings.HasPrefix(filePath, "thumbnails/") {
		return strings.TrimPrefix(filePath, "thumbnails/"), true
	}
	return "", false
}
