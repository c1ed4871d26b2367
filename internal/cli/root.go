// Package cli provides cardctl, the command-line interface of the card browser.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/CardBrowser/internal/config"
	"github.com/JonMunkholm/CardBrowser/internal/core"
	"github.com/JonMunkholm/CardBrowser/internal/logging"
	"github.com/JonMunkholm/CardBrowser/internal/source"
)

// Version is set at build time.
var Version = "0.1.0"

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

// options are the persistent flags shared by every command.
type options struct {
	file   string
	locale string
	output string

	cfg *config.Config
}

// NewRootCmd creates the cardctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "cardctl",
		Short: "Browse card result sets from the terminal",
		Long: `cardctl loads a result set from a JSON or YAML payload file or from the
configured PostgreSQL query and shows it as cards.

The source and locale default to the same environment variables the server
reads (SOURCE_FILE, DATABASE_URL, SOURCE_QUERY, BROWSER_LOCALE).`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			switch opts.output {
			case outputTable, outputJSON, outputCSV:
			default:
				return fmt.Errorf("unknown output format %q (table|json|csv)", opts.output)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg

			// Logs go to stderr so they never mix with command output.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "payload file (JSON or YAML); default $SOURCE_FILE")
	rootCmd.PersistentFlags().StringVar(&opts.locale, "locale", "", "collation locale; default $BROWSER_LOCALE")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "output format (table|json|csv)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{outputTable, outputJSON, outputCSV}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newViewCommand(opts))
	rootCmd.AddCommand(newFacetsCommand(opts))
	rootCmd.AddCommand(newFormattingModelCommand(opts))
	rootCmd.AddCommand(newBrowseCommand(opts))

	return rootCmd
}

var errNoSource = errors.New("no source: pass --file or set SOURCE_FILE or DATABASE_URL")

// sourceFile is the payload file in effect, flag first.
func (o *options) sourceFile() string {
	if o.file != "" {
		return o.file
	}
	return o.cfg.Source.File
}

// loadService builds a service and publishes one snapshot from the
// configured source.
func loadService(ctx context.Context, opts *options) (*core.Service, error) {
	locale := opts.cfg.Browser.Locale
	if opts.locale != "" {
		locale = opts.locale
	}
	svc := core.NewService(core.DefaultColumnNames(), core.WithLocale(locale))

	switch {
	case opts.sourceFile() != "":
		p, err := source.LoadFile(opts.sourceFile())
		if err != nil {
			return nil, err
		}
		p.Publish(ctx, svc)

	case opts.cfg.Database.Enabled():
		pool, err := source.OpenPool(ctx, opts.cfg.Database)
		if err != nil {
			return nil, err
		}
		defer pool.Close()

		pg := &source.Postgres{Pool: pool, Query: opts.cfg.Database.Query, Names: svc.Names()}
		rs, err := pg.Load(ctx)
		if err != nil {
			return nil, err
		}
		svc.Update(ctx, rs, core.DefaultSettings())

	default:
		return nil, errNoSource
	}
	return svc, nil
}
