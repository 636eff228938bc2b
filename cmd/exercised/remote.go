package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"exercisecatalog/pkg/client"
	"exercisecatalog/pkg/config"
	"exercisecatalog/pkg/models"
)

func newRemoteCmd(cfg *config.Config) *cobra.Command {
	var (
		serverURL string
		retries   int
	)

	newClient := func() (*client.Client, error) {
		if serverURL == "" {
			serverURL = cfg.Addr
		}
		return client.New(serverURL, retries, client.DefaultRetryWaitMin, client.DefaultRetryWaitMax)
	}

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Work with a running exercise server",
	}
	cmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (defaults to the configured addr)")
	cmd.PersistentFlags().IntVar(&retries, "retries", client.DefaultRetryMax, "retries after a failed connection")

	cmd.AddCommand(
		newRemoteHealthCmd(newClient),
		newRemoteListCmd(newClient),
		newRemoteUploadCmd(newClient),
		newRemoteDownloadCmd(newClient),
		newRemoteDeleteCmd(newClient),
	)
	return cmd
}

type clientFactory func() (*client.Client, error)

func newRemoteHealthCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up and print its version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			version, err := c.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok, server version %s\n", version)
			return nil
		},
	}
}

func newRemoteListCmd(newClient clientFactory) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exercises on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			exercises, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), exercises)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tFACULTY\tFILE\tCREATED")
			for _, exercise := range exercises {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					exercise.ID, exercise.Title, exercise.Author, exercise.Faculty,
					exercise.StoredFileName, humanize.Time(exercise.CreatedAt))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	return cmd
}

func newRemoteUploadCmd(newClient clientFactory) *cobra.Command {
	var exercise models.NewExercise

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an exercise file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			if exercise.FileName == "" {
				exercise.FileName = filepath.Base(args[0])
			}
			result, err := c.Upload(cmd.Context(), exercise, file)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "uploaded exercise %d as %s (%s)\n",
				result.ID, result.StoredFileName, humanize.Bytes(uint64(result.Size)))
			return nil
		},
	}
	cmd.Flags().StringVar(&exercise.Title, "title", "", "exercise title")
	cmd.Flags().StringVar(&exercise.Author, "author", "", "exercise author")
	cmd.Flags().StringVar(&exercise.Faculty, "faculty", "", "faculty")
	cmd.Flags().StringVar(&exercise.FileName, "name", "", "file name to store under (defaults to the base name of FILE)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("faculty")
	return cmd
}

func newRemoteDownloadCmd(newClient clientFactory) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download ID",
		Short: "Download the file of an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exerciseID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid exercise id %q: %w", args[0], err)
			}
			c, err := newClient()
			if err != nil {
				return err
			}

			dir := "."
			if output != "" {
				dir = filepath.Dir(output)
			}
			tempFile, err := os.CreateTemp(dir, ".download-*")
			if err != nil {
				return err
			}
			defer os.Remove(tempFile.Name())
			defer tempFile.Close()

			name, err := c.Download(cmd.Context(), exerciseID, tempFile)
			if err != nil {
				return err
			}
			if err := tempFile.Close(); err != nil {
				return err
			}

			target := output
			if target == "" {
				target = filepath.Base(name)
				if name == "" || target == "." || target == string(filepath.Separator) {
					target = fmt.Sprintf("exercise-%d", exerciseID)
				}
			}
			if err := os.Rename(tempFile.Name(), target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (defaults to the stored file name)")
	return cmd
}

func newRemoteDeleteCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exerciseID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid exercise id %q: %w", args[0], err)
			}
			c, err := newClient()
			if err != nil {
				return err
			}

			result, err := c.Delete(cmd.Context(), exerciseID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted exercise %d\n", result.ID)
			if result.Warning != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", result.Warning)
			}
			return nil
		},
	}
}
