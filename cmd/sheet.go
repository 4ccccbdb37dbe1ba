package cmd

import (
	"fmt"

	"WorshipHub/core/cipher"
	"WorshipHub/storage"

	"github.com/spf13/cobra"
)

var (
	sheetKey    string
	sheetName   string
	sheetPrefix string
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Export rendered chord sheets",
}

var sheetExportCmd = &cobra.Command{
	Use:   "export <music-id>",
	Short: "Render a music and write it to the sheet store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		m, c, err := client.LoadCipher(ctx, args[0])
		if err != nil {
			return err
		}
		sheet, err := cipher.NewSheet(m, c, sheetKey)
		if err != nil {
			return err
		}
		store, err := storage.Open(ctx, cfg)
		if err != nil {
			return err
		}
		name := sheetName
		if name == "" {
			name = storage.SheetName(m.Title, sheet.Key)
		}
		location, err := store.Put(ctx, name, []byte(sheet.Text()))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), location)
		return nil
	},
}

var sheetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exported sheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		objects, err := store.List(cmd.Context(), sheetPrefix)
		if err != nil {
			return err
		}
		return printJSON(cmd, objects)
	},
}

func init() {
	sheetExportCmd.Flags().StringVarP(&sheetKey, "key", "k", "", "export transposed to this key")
	sheetExportCmd.Flags().StringVarP(&sheetName, "name", "o", "", "object name (default derived from title and key)")
	sheetListCmd.Flags().StringVarP(&sheetPrefix, "prefix", "p", "", "only names starting with prefix")

	sheetCmd.AddCommand(sheetExportCmd, sheetListCmd)
	rootCmd.AddCommand(sheetCmd)
}
