package view

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/pkg/client"
)

// SelectionLookup resolves the detail of a selected thumbnail.  Concurrent
// lookups of the same id share one request.  It reads nothing from and
// writes nothing to any view.
type SelectionLookup struct {
	client *client.Client
	logger logging.Logger
	group  singleflight.Group
}

// NewSelectionLookup builds a lookup over d's client.
func NewSelectionLookup(d *Deps) *SelectionLookup {
	return &SelectionLookup{client: d.Client, logger: d.Logger.Named("selection")}
}

// Lookup returns the thumbnail with id and its image URL.
func (s *SelectionLookup) Lookup(ctx context.Context, id int64) (normalize.ThumbnailRow, error) {
	v, err, shared := s.group.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		t, err := s.client.Thumbnails().Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return normalize.ThumbnailDetail(*t, s.client.BaseURL(), s.client.StaticPrefix()), nil
	})
	if err != nil {
		s.logger.Warn("thumbnail lookup failed", logging.Int64("id", id), logging.Err(err))
		return normalize.ThumbnailRow{}, err
	}
	if shared {
		s.logger.Debug("thumbnail lookup shared", logging.Int64("id", id))
	}
	return v.(normalize.ThumbnailRow), nil
}

// Selected resolves a snapshot's selection, if any.
func (s *SelectionLookup) Selected(ctx context.Context, selection *int64) (normalize.ThumbnailRow, bool, error) {
	if selection == nil {
		return normalize.ThumbnailRow{}, false, nil
	}
	row, err := s.Lookup(ctx, *selection)
	if err != nil {
		return normalize.ThumbnailRow{}, false, err
	}
	return row, true, nil
}
