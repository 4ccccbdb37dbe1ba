package cmd

import (
	"fmt"
	"os"
	"time"

	"WorshipHub/core/api"
	"WorshipHub/model"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string

	profileName     string
	profileImageURL string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("WORSHIPHUB_PASSWORD")
		}
		user, err := client.Login(cmd.Context(), loginEmail, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

type whoami struct {
	LoggedIn    bool       `json:"loggedIn"`
	FirebaseUID string     `json:"firebaseUid,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	SessionFile string     `json:"sessionFile"`
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := client.CurrentSession()
		if err != nil {
			return err
		}
		out := whoami{LoggedIn: sess.LoggedIn(), FirebaseUID: sess.FirebaseUID, SessionFile: sessions.Path()}
		if exp, ok := api.TokenExpiry(sess.Token); ok {
			out.ExpiresAt = &exp
		}
		return printJSON(cmd, out)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Look up users",
}

var usersSearchCmd = &cobra.Command{
	Use:   "search <email>",
	Short: "Search users by email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := client.SearchUsersByEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, users)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your name or picture",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.UpdateProfile(cmd.Context(), model.ProfileUpdate{Name: profileName, ImageURL: profileImageURL})
		if err != nil {
			return err
		}
		return printJSON(cmd, user)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (or WORSHIPHUB_PASSWORD)")
	loginCmd.MarkFlagRequired("email")

	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "display name")
	profileUpdateCmd.Flags().StringVar(&profileImageURL, "image-url", "", "profile picture URL")

	usersCmd.AddCommand(usersSearchCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, usersCmd, profileCmd)
}
