package cmd

import (
	"fmt"
	"os"

	"WorshipHub/model"

	"github.com/spf13/cobra"
)

var (
	musicGroup      string
	musicTitle      string
	musicArtist     string
	musicTone       string
	musicLyricsFile string
	musicLink       string
)

var musicsCmd = &cobra.Command{
	Use:   "musics",
	Short: "Manage a group's song library",
}

var musicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every visible music",
	RunE: func(cmd *cobra.Command, args []string) error {
		musics, err := client.ListMusics(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, musics)
	},
}

var musicsGroupCmd = &cobra.Command{
	Use:   "group <group-id>",
	Short: "List a group's musics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		musics, err := client.ListGroupMusics(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, musics)
	},
}

var musicsGetCmd = &cobra.Command{
	Use:   "get <music-id>",
	Short: "Show a music",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := client.GetMusic(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, m)
	},
}

// applyMusicFlags copies the flags set on cmd onto m.
func applyMusicFlags(cmd *cobra.Command, m *model.Music) error {
	flags := cmd.Flags()
	if flags.Changed("group") {
		m.GroupID = musicGroup
	}
	if flags.Changed("title") {
		m.Title = musicTitle
	}
	if flags.Changed("artist") {
		m.Artist = musicArtist
	}
	if flags.Changed("tone") {
		m.Tone = musicTone
	}
	if flags.Changed("link") {
		m.Link = musicLink
	}
	if flags.Changed("lyrics-file") {
		data, err := os.ReadFile(musicLyricsFile)
		if err != nil {
			return fmt.Errorf("read lyrics: %w", err)
		}
		m.Lyrics = string(data)
	}
	return nil
}

var musicsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a music to a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in model.Music
		if err := applyMusicFlags(cmd, &in); err != nil {
			return err
		}
		m, err := client.CreateMusic(cmd.Context(), in)
		if err != nil {
			return err
		}
		return printJSON(cmd, m)
	},
}

var musicsUpdateCmd = &cobra.Command{
	Use:   "update <music-id>",
	Short: "Update a music; unset flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := client.GetMusic(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		in := *current
		if err := applyMusicFlags(cmd, &in); err != nil {
			return err
		}
		m, err := client.UpdateMusic(cmd.Context(), in)
		if err != nil {
			return err
		}
		return printJSON(cmd, m)
	},
}

var musicsDeleteCmd = &cobra.Command{
	Use:   "delete <music-id>",
	Short: "Delete a music",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.DeleteMusic(cmd.Context(), args[0], musicGroup); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted music %s\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{musicsCreateCmd, musicsUpdateCmd} {
		c.Flags().StringVarP(&musicGroup, "group", "g", "", "group id")
		c.Flags().StringVarP(&musicTitle, "title", "t", "", "title")
		c.Flags().StringVarP(&musicArtist, "artist", "a", "", "artist")
		c.Flags().StringVarP(&musicTone, "tone", "k", "", "original key, e.g. G or Em")
		c.Flags().StringVarP(&musicLyricsFile, "lyrics-file", "l", "", "file with one lyric line per line")
		c.Flags().StringVar(&musicLink, "link", "", "reference recording URL")
	}
	musicsCreateCmd.MarkFlagRequired("group")
	musicsCreateCmd.MarkFlagRequired("title")
	musicsDeleteCmd.Flags().StringVarP(&musicGroup, "group", "g", "", "group id, when known")

	musicsCmd.AddCommand(musicsListCmd, musicsGroupCmd, musicsGetCmd, musicsCreateCmd, musicsUpdateCmd, musicsDeleteCmd)
	rootCmd.AddCommand(musicsCmd)
}
