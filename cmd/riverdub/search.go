package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/riverdub/riverdub"
	"github.com/riverdub/riverdub/internal/config"
)

func newSearchCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [text...]",
		Short: "Search the catalog from the command line",
		Long: "Filters the configured catalog by type, season and fuzzy text, " +
			"exactly like GET /api/videos, and prints the matches as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			typ, _ := cmd.Flags().GetString("type")
			season, _ := cmd.Flags().GetInt("season")

			ctx, stop := signalContext()
			defer stop()

			client, err := riverdub.New(ctx, clientOptions(cfg, logger)...)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer client.Close()

			q := client.Search().Text(strings.Join(args, " "))
			if typ != "" {
				q = q.Type(typ)
			}
			if season > 0 {
				q = q.Season(season)
			}
			videos, err := q.Do(ctx)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			if len(videos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No videos found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), videoTable(videos))
			return nil
		},
	}
	cmd.Flags().String("type", "", "only videos of this type")
	cmd.Flags().Int("season", 0, "only videos of this season")
	return cmd
}

// clientOptions maps the server configuration onto the embedded client.
func clientOptions(cfg config.Config, logger *zap.Logger) []riverdub.Option {
	var opts []riverdub.Option
	switch cfg.Database.Driver {
	case config.DriverRedis:
		opts = append(opts,
			riverdub.WithRedis(cfg.Database.Addrs...),
			riverdub.WithRedisAuth(cfg.Database.Username, cfg.Database.Password),
			riverdub.WithRedisDB(cfg.Database.DB),
			riverdub.WithKeyPrefix(cfg.Database.KeyPrefix),
		)
	default:
		opts = append(opts, riverdub.WithSQLite(cfg.Database.Path))
	}

	m := riverdub.Matching{
		ShortTermMaxLen: cfg.Search.ShortTermMaxLen,
		LongMaxDistance: cfg.Search.LongMaxDistance,
		MinSimilarity:   cfg.Search.MinSimilarity,
	}
	for _, t := range cfg.Search.Tiers {
		m.Tiers = append(m.Tiers, riverdub.Tier{MaxTermLen: t.MaxTermLen, MaxDistance: t.MaxDistance})
	}
	opts = append(opts,
		riverdub.WithMatching(m),
		riverdub.WithParallelism(cfg.Search.Workers, cfg.Search.ParallelThreshold),
		riverdub.WithLogger(logger),
	)

	if len(cfg.Catalog.Types) > 0 {
		types := make([]riverdub.TypeLabel, len(cfg.Catalog.Types))
		for i, t := range cfg.Catalog.Types {
			types[i] = riverdub.TypeLabel{Type: t.Name, Label: t.Label}
		}
		opts = append(opts, riverdub.WithTypes(types...))
	}
	return opts
}

func videoTable(videos []riverdub.Video) string {
	headers := []string{"ID", "Title", "Type", "S/E", "Threshold", "Created"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(videos))
	for i := range videos {
		v := &videos[i]
		rows = append(rows, []string{
			v.ID,
			v.Title,
			v.TypeLabel,
			numbering(v.Season, v.Episode),
			strconv.Itoa(v.Threshold),
			v.CreatedAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	return renderTable(headers, rows, aligns)
}

func numbering(season, episode *int) string {
	if season == nil || episode == nil {
		return "-"
	}
	return fmt.Sprintf("S%02dE%02d", *season, *episode)
}
