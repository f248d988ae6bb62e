package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-toolkit/internal/theme"
)

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <issue-key>",
		Short: "List the custom fields carrying values on an issue",
		Long: `Examines one issue and prints every custom field that holds a value,
with its field id, display name, and raw value. Useful for finding the
instance-specific field ids the other commands need.`,
		Args: cobra.ExactArgs(1),
		RunE: runFields,
	}
}

func runFields(cmd *cobra.Command, args []string) error {
	appCfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	client, err := newJiraClient(appCfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	issue, err := client.GetIssue(ctx, args[0], nil)
	if err != nil {
		return err
	}

	fields, err := client.ListFields(ctx)
	if err != nil {
		return err
	}

	names := make(map[string]string)
	for _, field := range fields {
		if field.Custom {
			names[field.ID] = field.Name
		}
	}

	fmt.Println(theme.HeaderStyle.Render("Examining issue: " + issue.Key))
	fmt.Printf("Summary: %s\n\n", issue.Fields.Summary)
	fmt.Println(theme.HeaderStyle.Render("Custom fields with values:"))
	fmt.Println(strings.Repeat("-", 60))

	ids := make([]string, 0, len(issue.Fields.Custom))
	for id := range issue.Fields.Custom {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		value := issue.Fields.Custom[id]
		if string(value) == "null" {
			continue
		}

		fmt.Printf("%s: %s\n",
			theme.KeyStyle.Render(id), names[id])
		fmt.Printf("  Value: %s\n\n",
			theme.SuccessStyle.Render(string(value)))
	}

	return nil
}
