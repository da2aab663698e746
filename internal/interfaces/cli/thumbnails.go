package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thumblens/thumblens/internal/binding"
	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/internal/view"
	"github.com/thumblens/thumblens/pkg/client"
	"github.com/thumblens/thumblens/pkg/errors"
)

func newThumbnailsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thumbnails",
		Short: "Browse the thumbnail dataset",
	}
	cmd.AddCommand(newThumbnailsListCmd(), newThumbnailsGetCmd())
	return cmd
}

func newThumbnailsListCmd() *cobra.Command {
	var (
		p                         client.ListParams
		yearMin, yearMax, minFace int
		hasText                   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of thumbnails",
		Args:  cobra.NoArgs,
		RunE: runView(func(cmd *cobra.Command, cc *CLIContext) (*Result, error) {
			v := view.NewThumbnailsView(cc.Deps)
			params := p
			if !cmd.Flags().Changed("page-size") {
				params.PageSize = v.DefaultFilter().PageSize
			}
			flags := cmd.Flags()
			if flags.Changed("year-min") {
				params.YearMin = &yearMin
			}
			if flags.Changed("year-max") {
				params.YearMax = &yearMax
			}
			if flags.Changed("min-faces") {
				params.MinFaces = &minFace
			}
			if flags.Changed("has-text") {
				params.HasText = &hasText
			}
			if params.Page < 1 {
				return nil, errors.InvalidParam("page must be at least 1")
			}

			snap, err := v.Load(cmd.Context(), params)
			if err != nil {
				return nil, err
			}
			return thumbnailsResult(snap), nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&p.Group, "group", "", "only this category")
	f.IntVar(&yearMin, "year-min", 0, "earliest upload year")
	f.IntVar(&yearMax, "year-max", 0, "latest upload year")
	f.BoolVar(&hasText, "has-text", false, "only thumbnails with (or, =false, without) text")
	f.IntVar(&minFace, "min-faces", 0, "minimum detected faces")
	f.StringVar(&p.Sort, "sort", "", "sort field")
	f.StringVar(&p.Order, "order", "", "sort order, asc or desc")
	f.IntVar(&p.Page, "page", 1, "page number")
	f.IntVar(&p.PageSize, "page-size", 0, "thumbnails per page (default: views.page_size)")
	return cmd
}

func thumbnailsResult(snap view.Snapshot[client.ListParams, view.ThumbnailsModel]) *Result {
	m := snap.Data
	r := &Result{Data: snap}
	r.addLine("%s thumbnails, page %d of %d", count(m.Total), m.Page, m.Pages)

	s := Section{Headers: []string{"ID", "Category", "Year", "Channel", "Title", "Views", "CTR"}}
	for _, row := range m.Rows {
		s.Rows = append(s.Rows, []string{
			strconv.FormatInt(row.ID, 10),
			row.Category,
			row.Year.String(0),
			row.Channel,
			truncate(row.Title, 50),
			binding.FormatCell(binding.KindCount, row.Views),
			binding.FormatCell(binding.KindRatio, row.CTR),
		})
	}
	r.addSection(s)
	return r
}

func newThumbnailsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one thumbnail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.InvalidParam("thumbnail id must be an integer")
			}
			return runView(func(cmd *cobra.Command, cc *CLIContext) (*Result, error) {
				row, err := view.NewSelectionLookup(cc.Deps).Lookup(cmd.Context(), id)
				if err != nil {
					return nil, err
				}
				r := &Result{Data: row}
				r.addSection(thumbnailDetail(row))
				return r, nil
			})(cmd, args)
		},
	}
}

func thumbnailDetail(row normalize.ThumbnailRow) Section {
	cluster := normalize.Placeholder
	if row.ClusterID != nil {
		cluster = strconv.Itoa(*row.ClusterID)
	}
	extracted := "no"
	if row.Extracted {
		extracted = "yes"
	}
	families := normalize.Placeholder
	if len(row.Families) > 0 {
		families = strings.Join(row.Families, ", ")
	}
	return Section{
		Title:   "Thumbnail " + strconv.FormatInt(row.ID, 10),
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Title", orPlaceholder(row.Title)},
			{"Channel", orPlaceholder(row.Channel)},
			{"Category", row.Category},
			{"Year", row.Year.String(0)},
			{"Views", binding.FormatCell(binding.KindCount, row.Views)},
			{"CTR", binding.FormatCell(binding.KindRatio, row.CTR)},
			{"Cluster", cluster},
			{"Features extracted", extracted},
			{"Feature families", families},
			{"Image", row.ImageURL},
		},
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return normalize.Placeholder
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
