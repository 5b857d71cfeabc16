package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbessler/graphtutorial/internal/auth"
	"github.com/nbessler/graphtutorial/internal/graph"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Sign in as a user and work with mail",
	Long: `Sign in with the device-code flow and walk the delegated scenarios:
display the access token, list your inbox, send yourself a message, and
list the tenant's users (requires app-only credentials in the settings
file).`,
	RunE: runUser,
}

func init() {
	rootCmd.AddCommand(userCmd)
}

func runUser(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Go Graph Tutorial")
	fmt.Fprintln(out)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ForUserAuth(); err != nil {
		return err
	}

	source, err := auth.NewDeviceCodeSource(cfg.ClientID, cfg.SignInTenant(), func(c auth.Challenge) {
		fmt.Fprintln(out, c.Message)
	})
	if err != nil {
		return err
	}

	s := newSession(cfg, cmd.InOrStdin(), out)
	s.userClient = graph.NewClient(source, cfg.UserScopes)

	ctx := cmd.Context()
	s.greetUser(ctx)

	runMenu(ctx, s.in, s.out, []menuItem{
		{label: "Display access token", run: s.displayUserToken},
		{label: "List my inbox", run: s.listInbox},
		{label: "Send mail", run: s.sendMailToSelf},
		{label: "List users", run: s.listUsers},
		{label: "Make a Graph call", run: s.makeGraphCall},
	})
	return nil
}

func (s *session) greetUser(ctx context.Context) {
	user, err := s.userClient.GetUser(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Error getting user: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Hello, %s!\n", user.DisplayName)
	fmt.Fprintf(s.out, "Email: %s\n", user.Email())
}

func (s *session) displayUserToken(ctx context.Context) error {
	return s.displayToken(ctx, s.userClient)
}

func (s *session) listInbox(ctx context.Context) error {
	pager := s.userClient.GetInbox(0)
	if !pager.Next(ctx) && pager.Err() != nil {
		return fmt.Errorf("getting inbox: %w", pager.Err())
	}

	for _, message := range pager.Page() {
		from := ""
		if message.From != nil {
			from = message.From.EmailAddress.Name
		}
		status := "Unread"
		if message.IsRead {
			status = "Read"
		}
		fmt.Fprintf(s.out, "Message: %s\n", message.Subject)
		fmt.Fprintf(s.out, "  From: %s\n", from)
		fmt.Fprintf(s.out, "  Status: %s\n", status)
		// Values come back in UTC, show them in the local zone.
		fmt.Fprintf(s.out, "  Received: %s\n", message.ReceivedDateTime.Local().Format("1/2/06 3:04 PM"))
	}

	fmt.Fprintf(s.out, "\nMore messages available? %t\n", pager.More())
	return nil
}

func (s *session) sendMailToSelf(ctx context.Context) error {
	// Send mail to the signed-in user's own address.
	user, err := s.userClient.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("getting user: %w", err)
	}
	if err := s.userClient.SendMail(ctx, "Testing Microsoft Graph", "Hello world!", user.Email()); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	fmt.Fprintln(s.out, "\nMail sent.")
	return nil
}

func (s *session) listUsers(ctx context.Context) error {
	client, err := s.ensureAppClient()
	if err != nil {
		return err
	}

	pager := client.ListUsers(0)
	if !pager.Next(ctx) && pager.Err() != nil {
		return fmt.Errorf("getting users: %w", pager.Err())
	}

	for _, user := range pager.Page() {
		fmt.Fprintf(s.out, "User: %s\n", user.DisplayName)
		fmt.Fprintf(s.out, "  ID: %s\n", user.ID)
		fmt.Fprintf(s.out, "  Email: %s\n", user.Mail)
	}

	fmt.Fprintf(s.out, "\nMore users available? %t\n", pager.More())
	return nil
}
