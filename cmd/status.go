package cmd

import (
	"github.com/spf13/cobra"

	"ai-setup/internal/setup"
)

// statusCmd reports the current configuration without prompting.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configuration written by previous runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, closePrompter, err := newSession()
		if err != nil {
			return err
		}
		defer func() { _ = closePrompter() }()

		setup.Status(sess)
		return nil
	},
}
