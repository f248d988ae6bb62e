package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-toolkit/internal/credential"
	"github.com/nhle/jira-toolkit/internal/theme"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Jira credentials",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthCheckCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the Jira base URL and personal access token",
		Args:  cobra.NoArgs,
		RunE:  runAuthLogin,
	}
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Jira server URL: ")
	baseURL, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading server URL: %w", err)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return fmt.Errorf("server URL cannot be empty")
	}
	if !strings.HasPrefix(baseURL, "https://") &&
		!strings.HasPrefix(baseURL, "http://") {
		baseURL = "https://" + baseURL
	}

	fmt.Print("Personal access token: ")
	token, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	cfg.Jira.BaseURL = baseURL

	if err := credential.Set(credential.TokenKey, token); err != nil {
		return err
	}
	if err := saveAppConfig(cfg); err != nil {
		return err
	}

	fmt.Println(theme.SuccessStyle.Render("Credentials stored."))
	fmt.Println(theme.SubtleStyle.Render(
		"Run `jiratools auth check` to verify them."))
	return nil
}

func newAuthCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the stored credentials against the Jira API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			client, err := newJiraClient(cfg)
			if err != nil {
				return err
			}

			me, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("%s %s (%s)\n",
				theme.SuccessStyle.Render("Authenticated as"),
				me.DisplayName, me.Name)
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored personal access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credential.Delete(credential.TokenKey); err != nil {
				return err
			}
			fmt.Println(theme.SuccessStyle.Render("Token removed."))
			return nil
		},
	}
}
