package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"exercisecatalog/pkg/config"
	"exercisecatalog/pkg/models"
)

func newDriftCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Report blobs without records and records without blobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeStores, err := openService(cfg)
			if err != nil {
				return err
			}
			defer closeStores()

			report, err := svc.Drift(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printDrift(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	return cmd
}

const defaultPruneMinAge = 15 * time.Minute

func newPruneCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		minAge     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove blobs that no record points to",
		Long: "Remove blobs that no record points to.\n\n" +
			"A blob written by an upload whose record is not inserted yet looks\n" +
			"orphaned, so blobs modified within --min-age are kept.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if minAge < 0 {
				return fmt.Errorf("--min-age must not be negative, got %s", minAge)
			}

			svc, closeStores, err := openService(cfg)
			if err != nil {
				return err
			}
			defer closeStores()

			result, err := svc.PruneOrphans(cmd.Context(), minAge)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			for _, name := range result.Removed {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", name)
			}
			for _, name := range result.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "kept    %s: modified less than %s ago\n", name, minAge)
			}
			for name, reason := range result.Failed {
				fmt.Fprintf(cmd.OutOrStdout(), "failed  %s: %s\n", name, reason)
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d orphaned blobs could not be removed", len(result.Failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.Flags().DurationVar(&minAge, "min-age", defaultPruneMinAge, "keep orphaned blobs modified more recently than this")
	return cmd
}

func printDrift(w io.Writer, report *models.DriftReport) {
	if report.Clean() {
		fmt.Fprintln(w, "catalog and blob store agree")
		return
	}
	for _, name := range report.OrphanedBlobs {
		fmt.Fprintf(w, "orphaned blob   %s\n", name)
	}
	for _, exercise := range report.MissingBlobs {
		fmt.Fprintf(w, "missing blob    %s (exercise %d, %q)\n", exercise.StoredFileName, exercise.ID, exercise.Title)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
