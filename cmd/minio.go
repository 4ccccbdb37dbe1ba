package cmd

import (
	"fmt"
	"time"

	"WorshipHub/storage"

	"github.com/spf13/cobra"
)

var minioPrefix string

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Check the MinIO sheet store",
	Long:  `Connects to the configured MinIO endpoint, creates the bucket when missing, round-trips a probe object and lists the stored sheets.`,
	Example: `  # check the connection and list every sheet
  worshiphub minio

  # only sheets under a prefix
  worshiphub minio -p "sunday/"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fmt.Fprintf(cmd.OutOrStdout(), "MinIO: %s, bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		store, err := storage.NewMinioStore(ctx, cfg)
		if err != nil {
			return err
		}
		if err := store.Check(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "connection ok")

		objects, err := store.List(ctx, minioPrefix)
		if err != nil {
			return err
		}
		var total int64
		for _, o := range objects {
			total += o.Size
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %d bytes  %s\n", o.Key, o.Size, o.LastModified.Format(time.RFC3339))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d sheets, %.2f KB\n", len(objects), float64(total)/1024)
		return nil
	},
}

func init() {
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "only list names starting with prefix")
	rootCmd.AddCommand(minioCmd)
}
