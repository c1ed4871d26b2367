package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/CardBrowser/internal/core"
	"github.com/JonMunkholm/CardBrowser/internal/logging"
	"github.com/JonMunkholm/CardBrowser/internal/source"
	"github.com/JonMunkholm/CardBrowser/internal/tui"
)

func newViewCommand(opts *options) *cobra.Command {
	var (
		search  string
		dir     string
		filters []string
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the filtered, sorted cards",
		Example: `  # All cards as a table
  cardctl view -f cards.json

  # Search and filter, as JSON
  cardctl view -f cards.json --search budget --filter region=EU -o json

  # Export the view as CSV
  cardctl view -f cards.yaml --dir desc -o csv > cards.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := buildState(search, dir, filters)
			if err != nil {
				return err
			}
			svc, err := loadService(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return renderView(cmd.OutOrStdout(), svc.View(state), opts.output)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive search term")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "metadata filter key=value (repeatable; OR within a key, AND across keys)")
	cmd.Flags().StringVar(&dir, "dir", "", "sort direction (asc|desc); default from settings")
	return cmd
}

func newFacetsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List metadata keys with their values and counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return renderFacets(cmd.OutOrStdout(), svc.View(core.ViewState{}).Facets, opts.output)
		},
	}
}

func newFormattingModelCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "formatting-model",
		Short: "Print the settings as the host formatting model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return renderFormattingModel(cmd.OutOrStdout(), svc.Current().Settings.FormattingModel(), opts.output)
		},
	}
}

func newBrowseCommand(opts *options) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive terminal browser",
		Long: `Open the interactive terminal browser.

Keys: / search, f filter menu, s toggle sort, r reset, enter open a card,
esc back, q quit. With --watch the payload file is reloaded on change and
the view starts over on the new data.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := loadService(ctx, opts)
			if err != nil {
				return err
			}

			// The terminal belongs to the browser while it runs.
			slog.SetDefault(logging.New(io.Discard, "error", "text"))

			if watch && opts.sourceFile() != "" {
				go func() {
					err := source.WatchFile(ctx, opts.sourceFile(), func(p source.Payload) {
						p.Publish(ctx, svc)
					})
					if err != nil {
						slog.Error("watch failed", "error", err)
					}
				}()
			}
			return tui.Run(ctx, svc)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", true, "reload the payload file when it changes")
	return cmd
}

// buildState turns view flags into a view state. Repeated values for a key
// are accepted once.
func buildState(search, dir string, filters []string) (core.ViewState, error) {
	state := core.ViewState{Search: search}

	switch strings.ToLower(dir) {
	case "":
	case core.SortAsc, core.SortDesc:
		state.SortDirection = strings.ToLower(dir)
	default:
		return core.ViewState{}, fmt.Errorf("invalid --dir %q (asc|desc)", dir)
	}

	for _, f := range filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return core.ViewState{}, fmt.Errorf("invalid --filter %q (want key=value)", f)
		}
		if state.Filters == nil {
			state.Filters = make(map[string][]string)
		}
		if !containsString(state.Filters[key], value) {
			state.Filters[key] = append(state.Filters[key], value)
		}
	}
	return state, nil
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
