package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Authenticate as the application and work with users",
	Long: `Authenticate with the client-credentials flow (no signed-in user) and
walk the app-only scenarios: display the access token and list the
tenant's users.`,
	RunE: runApp,
}

func init() {
	rootCmd.AddCommand(appCmd)
}

func runApp(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Go App-Only Graph Tutorial")
	fmt.Fprintln(out)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ForAppAuth(); err != nil {
		return err
	}

	s := newSession(cfg, cmd.InOrStdin(), out)
	if _, err := s.ensureAppClient(); err != nil {
		return err
	}

	runMenu(cmd.Context(), s.in, s.out, []menuItem{
		{label: "Display access token", run: s.displayAppToken},
		{label: "List users", run: s.listUsers},
		{label: "Make a Graph call", run: s.makeGraphCall},
	})
	return nil
}

func (s *session) displayAppToken(ctx context.Context) error {
	return s.displayToken(ctx, s.appClient)
}
