package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"image-processing-be/internal/config"
	"image-processing-be/internal/dto"
	"image-processing-be/pkg/events"
	pktNats "image-processing-be/pkg/nats"

	"github.com/spf13/cobra"
)

var (
	confirmClear bool
	historyQuery dto.HistoryQuery
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every history record, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-filter counts",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history, users and stored files",
	Long: `Delete every history record and user, and remove all uploaded and
processed files. Sessions held by running servers are not touched; their
next filter request recreates the user.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream domain events from NATS",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	clearCmd.Flags().BoolVar(&confirmClear, "yes", false, "confirm deletion")

	listCmd.Flags().StringVar(&historyQuery.Filter, "filter", "", "only records made with this filter")
	listCmd.Flags().StringVar(&historyQuery.Username, "user", "", "only records made by this user")
	listCmd.Flags().UintVar(&historyQuery.UserID, "user-id", 0, "only records made by this user id")
	listCmd.Flags().IntVar(&historyQuery.Limit, "limit", 0, "maximum number of records (0 for all)")
	listCmd.Flags().IntVar(&historyQuery.Offset, "offset", 0, "records to skip, used with --limit")

	rootCmd.AddCommand(listCmd, statsCmd, clearCmd, watchCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openHistory(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	items, err := svc.ListHistory(cmd.Context(), historyQuery)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tFILTER\tORIGINAL\tPROCESSED\tCREATED")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			item.Id, item.Username, item.FilterType, item.OriginalFilename, item.ProcessedFilename,
			item.CreatedAt.Format(time.DateTime))
	}
	return w.Flush()
}

func runStats(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openHistory(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := svc.Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Images: %d\nUsers:  %d\n", stats.TotalImages, stats.TotalUsers)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, entry := range stats.ByFilter {
		fmt.Fprintf(w, "  %s\t%d\n", entry.FilterType, entry.Total)
	}
	return w.Flush()
}

func runClear(cmd *cobra.Command, args []string) error {
	if !confirmClear {
		return fmt.Errorf("refusing to clear history without --yes")
	}

	svc, cleanup, err := openHistory(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.ClearHistory(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d images, %d users, %d uploaded files, %d processed files.\n",
		res.ImagesDeleted, res.UsersDeleted, res.UploadFilesDeleted, res.ProcessedFilesDeleted)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		return fmt.Errorf("NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	err = sub.Subscribe(ctx, pktNats.AllSubjects, "", func(_ context.Context, evt events.BaseEvent) error {
		fmt.Fprintln(out, formatEvent(evt))
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s on %s (Ctrl+C to stop)\n", pktNats.AllSubjects, cfg.App.NatsURL)
	<-ctx.Done()
	return nil
}

func formatEvent(evt events.BaseEvent) string {
	return fmt.Sprintf("%s  %-16s %v", evt.OccurredAt.Format(time.RFC3339), evt.Type, evt.Data)
}
