package cmd

import (
	"github.com/spf13/cobra"

	"ai-setup/internal/setup"
)

// newToolCmd builds the interactive setup command for the named tool.
func newToolCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cfg, closePrompter, err := newSession()
			if err != nil {
				return err
			}
			defer func() { _ = closePrompter() }()

			return setup.Run(cmd.Context(), sess, setup.Tools(cfg)[name])
		},
	}
}
