package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nhle/jira-toolkit/internal/scorecard"
	"github.com/nhle/jira-toolkit/internal/theme"
)

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		var cfgErr *scorecard.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(cfgErr.Error()))
			os.Exit(2)
		}

		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
