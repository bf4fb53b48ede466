package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pathwai/pathwai-backend/internal/repository"
	"github.com/pathwai/pathwai-backend/internal/service"
)

var widgetTypesCmd = &cobra.Command{
	Use:   "widget-types",
	Short: "Maintain the widget type registry",
}

var widgetTypesSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Register every known widget type in the database",
	Long: `Insert missing widget types and refresh names and categories of existing ones.

When REDIS_URL is set the shared widget type cache is dropped as well, so
running servers pick up the new ids.

Examples:
  pathwaictl widget-types sync`,
	Args: cobra.NoArgs,
	RunE: runWidgetTypesSync,
}

func init() {
	widgetTypesCmd.AddCommand(widgetTypesSyncCmd)
}

func runWidgetTypesSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	conn, cfg, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var redisCache *service.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = service.NewRedisCache(ctx, cfg.RedisURL, "pathwai:")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: redis unavailable, shared cache not invalidated: %v\n", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	memCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	memCache := service.NewCacheService(memCtx)

	store := repository.NewCatalogRepository(conn)
	resolver := service.NewWidgetTypeResolver(store, memCache, redisCache, cfg.WidgetTypeCacheTTL)
	report, err := service.NewCatalogService(store, memCache, resolver).SyncWidgetTypes(ctx)
	if err != nil {
		return err
	}
	printSyncReport(cmd.OutOrStdout(), report)
	return nil
}

func printSyncReport(out io.Writer, report *service.SyncReport) {
	for _, key := range report.Inserted {
		fmt.Fprintf(out, "+ %s\n", key)
	}
	for _, key := range report.Updated {
		fmt.Fprintf(out, "~ %s\n", key)
	}
	fmt.Fprintf(out, "%d inserted, %d updated\n", len(report.Inserted), len(report.Updated))
}
