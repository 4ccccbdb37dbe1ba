package cmd

import (
	"context"
	"fmt"

	"WorshipHub/core/cipher"
	"WorshipHub/core/theory"
	"WorshipHub/model"

	"github.com/spf13/cobra"
)

var (
	cipherKey  string
	cipherJSON bool
)

var cipherCmd = &cobra.Command{
	Use:   "cipher",
	Short: "View and edit a music's chord arrangement",
}

var cipherShowCmd = &cobra.Command{
	Use:   "show <music-id>",
	Short: "Render the chord sheet, optionally in another key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, c, err := client.LoadCipher(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		sheet, err := cipher.NewSheet(m, c, cipherKey)
		if err != nil {
			return err
		}
		if cipherJSON {
			return printJSON(cmd, struct {
				cipher.Sheet
				ChordLines []cipher.ChordLine `json:"chordLines"`
			}{sheet, c.ChordLines})
		}
		fmt.Fprint(cmd.OutOrStdout(), sheet.Text())
		if sheet.Stale > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d chord rows point past the last lyric line\n", sheet.Stale)
		}
		return nil
	},
}

// editCipher loads the arrangement of musicID, applies edit and saves it.
func editCipher(ctx context.Context, musicID string, edit func(cipher.Cipher) (cipher.Cipher, error)) (*model.Music, cipher.Cipher, error) {
	m, c, err := client.LoadCipher(ctx, musicID)
	if err != nil {
		return nil, cipher.Cipher{}, err
	}
	next, err := edit(c)
	if err != nil {
		return nil, cipher.Cipher{}, err
	}
	saved, err := client.SaveCipher(ctx, m, next)
	if err != nil {
		return nil, cipher.Cipher{}, err
	}
	return saved, next, nil
}

var cipherAddLineCmd = &cobra.Command{
	Use:   "add-line <music-id>",
	Short: "Append an empty chord row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := editCipher(cmd.Context(), args[0], func(c cipher.Cipher) (cipher.Cipher, error) {
			return cipher.AddLine(c), nil
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, c.ChordLines[len(c.ChordLines)-1])
	},
}

var cipherRemoveLineCmd = &cobra.Command{
	Use:   "remove-line <music-id> <line-id>",
	Short: "Remove a chord row",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := editCipher(cmd.Context(), args[0], func(c cipher.Cipher) (cipher.Cipher, error) {
			return cipher.RemoveLine(c, args[1]), nil
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, c)
	},
}

var cipherSetCmd = &cobra.Command{
	Use:   "set <music-id> <line-id> <chords|lyrics|lyricsLineIndex> <value>",
	Short: "Change one field of a chord row",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := editCipher(cmd.Context(), args[0], func(c cipher.Cipher) (cipher.Cipher, error) {
			return cipher.UpdateLine(c, args[1], cipher.Field(args[2]), args[3])
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, c)
	},
}

var cipherTransposeCmd = &cobra.Command{
	Use:   "transpose <music-id> <key>",
	Short: "Move the stored arrangement to a new key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := editCipher(cmd.Context(), args[0], func(c cipher.Cipher) (cipher.Cipher, error) {
			if _, err := theory.ParseKey(args[1]); err != nil {
				return c, err
			}
			return cipher.ChangeKey(c, args[1]), nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now in %s\n", m.Title, m.Tone)
		return nil
	},
}

func init() {
	cipherShowCmd.Flags().StringVarP(&cipherKey, "key", "k", "", "render in this key without saving")
	cipherShowCmd.Flags().BoolVar(&cipherJSON, "json", false, "print rows and chord lines as JSON")

	cipherCmd.AddCommand(cipherShowCmd, cipherAddLineCmd, cipherRemoveLineCmd, cipherSetCmd, cipherTransposeCmd)
	rootCmd.AddCommand(cipherCmd)
}
