package cmd

import (
	"fmt"

	"WorshipHub/model"

	"github.com/spf13/cobra"
)

var (
	setlistGroup string
	setlistName  string
	setlistDate  string
	setlistTone  string
)

var setlistsCmd = &cobra.Command{
	Use:   "setlists",
	Short: "Manage setlists",
}

var setlistsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every visible setlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		setlists, err := client.ListSetlists(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, setlists)
	},
}

var setlistsGroupCmd = &cobra.Command{
	Use:   "group <group-id>",
	Short: "List a group's setlists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setlists, err := client.ListGroupSetlists(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, setlists)
	},
}

var setlistsGetCmd = &cobra.Command{
	Use:   "get <setlist-id>",
	Short: "Show a setlist with its musics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := client.GetSetlist(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, s)
	},
}

var setlistsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a setlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := client.CreateSetlist(cmd.Context(), model.Setlist{GroupID: setlistGroup, Name: setlistName, Date: setlistDate})
		if err != nil {
			return err
		}
		return printJSON(cmd, s)
	},
}

var setlistsUpdateCmd = &cobra.Command{
	Use:   "update <setlist-id>",
	Short: "Rename or re-date a setlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := client.GetSetlist(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		in := *current
		if cmd.Flags().Changed("name") {
			in.Name = setlistName
		}
		if cmd.Flags().Changed("date") {
			in.Date = setlistDate
		}
		s, err := client.UpdateSetlist(cmd.Context(), in)
		if err != nil {
			return err
		}
		return printJSON(cmd, s)
	},
}

var setlistsDeleteCmd = &cobra.Command{
	Use:   "delete <setlist-id>",
	Short: "Delete a setlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.DeleteSetlist(cmd.Context(), args[0], setlistGroup); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted setlist %s\n", args[0])
		return nil
	},
}

var setlistsAddMusicCmd = &cobra.Command{
	Use:   "add-music <setlist-id> <music-id>",
	Short: "Append a music to a setlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.AddSetlistMusic(cmd.Context(), args[0], args[1], setlistTone); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", args[1], args[0])
		return nil
	},
}

var setlistsRemoveMusicCmd = &cobra.Command{
	Use:   "remove-music <setlist-id> <music-id>",
	Short: "Remove a music from a setlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.RemoveSetlistMusic(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s from %s\n", args[1], args[0])
		return nil
	},
}

var setlistsReorderCmd = &cobra.Command{
	Use:   "reorder <setlist-id> <music-id>...",
	Short: "Set the play order of a setlist",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.ReorderSetlistMusics(cmd.Context(), args[0], args[1:]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reordered %s\n", args[0])
		return nil
	},
}

func init() {
	setlistsCreateCmd.Flags().StringVarP(&setlistGroup, "group", "g", "", "group id")
	setlistsCreateCmd.MarkFlagRequired("group")
	for _, c := range []*cobra.Command{setlistsCreateCmd, setlistsUpdateCmd} {
		c.Flags().StringVarP(&setlistName, "name", "n", "", "setlist name")
		c.Flags().StringVarP(&setlistDate, "date", "d", "", "service date, YYYY-MM-DD")
	}
	setlistsCreateCmd.MarkFlagRequired("name")
	setlistsDeleteCmd.Flags().StringVarP(&setlistGroup, "group", "g", "", "group id, when known")
	setlistsAddMusicCmd.Flags().StringVarP(&setlistTone, "tone", "k", "", "key to play the music in")

	setlistsCmd.AddCommand(
		setlistsListCmd, setlistsGroupCmd, setlistsGetCmd,
		setlistsCreateCmd, setlistsUpdateCmd, setlistsDeleteCmd,
		setlistsAddMusicCmd, setlistsRemoveMusicCmd, setlistsReorderCmd,
	)
	rootCmd.AddCommand(setlistsCmd)
}
