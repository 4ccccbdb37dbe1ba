package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"WorshipHub/model"

	"github.com/spf13/cobra"
)

var (
	groupName        string
	groupDescription string
	groupImage       string
	groupForce       bool
	memberPermission string
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage worship groups and their members",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every visible group",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := client.ListGroups(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, groups)
	},
}

var groupsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the groups of the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := client.CurrentSession()
		if err != nil {
			return err
		}
		if !sess.LoggedIn() {
			return fmt.Errorf("not logged in")
		}
		groups, err := client.ListUserGroups(cmd.Context(), sess.FirebaseUID)
		if err != nil {
			return err
		}
		return printJSON(cmd, groups)
	},
}

var groupsGetCmd = &cobra.Command{
	Use:   "get <group-id>",
	Short: "Show a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := client.GetGroup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, g)
	},
}

var groupsInfoCmd = &cobra.Command{
	Use:   "info <group-id>",
	Short: "Show a group's counters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := client.GetGroupInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, info)
	},
}

var groupsMembersCmd = &cobra.Command{
	Use:   "members <group-id>",
	Short: "List a group's members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		members, err := client.GetGroupMembers(cmd.Context(), args[0], groupForce)
		if err != nil {
			return err
		}
		return printJSON(cmd, members)
	},
}

func groupInput() (model.GroupInput, error) {
	in := model.GroupInput{Name: groupName, Description: groupDescription}
	if groupImage != "" {
		data, err := os.ReadFile(groupImage)
		if err != nil {
			return in, fmt.Errorf("read image: %w", err)
		}
		in.Image = data
		in.ImageFilename = filepath.Base(groupImage)
	}
	return in, nil
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := groupInput()
		if err != nil {
			return err
		}
		g, err := client.CreateGroup(cmd.Context(), in)
		if err != nil {
			return err
		}
		return printJSON(cmd, g)
	},
}

var groupsUpdateCmd = &cobra.Command{
	Use:   "update <group-id>",
	Short: "Update a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := groupInput()
		if err != nil {
			return err
		}
		g, err := client.UpdateGroup(cmd.Context(), args[0], in)
		if err != nil {
			return err
		}
		return printJSON(cmd, g)
	},
}

var groupsDeleteCmd = &cobra.Command{
	Use:   "delete <group-id>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.DeleteGroup(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", args[0])
		return nil
	},
}

var groupsAddMemberCmd = &cobra.Command{
	Use:   "add-member <group-id> <email>",
	Short: "Invite a user to a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := client.AddMember(cmd.Context(), args[0], args[1], model.Permission(memberPermission))
		if err != nil {
			return err
		}
		return printJSON(cmd, m)
	},
}

var groupsRemoveMemberCmd = &cobra.Command{
	Use:   "remove-member <group-id> <user-id>",
	Short: "Remove a user from a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.RemoveMember(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s from %s\n", args[1], args[0])
		return nil
	},
}

var groupsSetPermissionCmd = &cobra.Command{
	Use:   "set-permission <group-id> <user-id> <admin|editor|viewer>",
	Short: "Change a member's permission",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.SetPermission(cmd.Context(), args[0], args[1], model.Permission(args[2])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s in %s\n", args[1], args[2], args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{groupsCreateCmd, groupsUpdateCmd} {
		c.Flags().StringVarP(&groupName, "name", "n", "", "group name")
		c.Flags().StringVarP(&groupDescription, "description", "d", "", "group description")
		c.Flags().StringVarP(&groupImage, "image", "i", "", "path to a group image")
		c.MarkFlagRequired("name")
	}
	groupsMembersCmd.Flags().BoolVarP(&groupForce, "force", "f", false, "skip the cached member list")
	groupsAddMemberCmd.Flags().StringVarP(&memberPermission, "permission", "p", string(model.PermissionViewer), "admin, editor or viewer")

	groupsCmd.AddCommand(
		groupsListCmd, groupsMineCmd, groupsGetCmd, groupsInfoCmd, groupsMembersCmd,
		groupsCreateCmd, groupsUpdateCmd, groupsDeleteCmd,
		groupsAddMemberCmd, groupsRemoveMemberCmd, groupsSetPermissionCmd,
	)
	rootCmd.AddCommand(groupsCmd)
}
