package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nbessler/graphtutorial/internal/auth"
	"github.com/nbessler/graphtutorial/internal/graph"
	"github.com/nbessler/graphtutorial/internal/tzmap"
)

// eventInputLayout is the format add-event prompts accept.
const eventInputLayout = "1/2/2006 3:04 PM"

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Sign in as a user and work with calendar events",
	Long: `Sign in with the device-code flow and walk the calendar scenarios:
display the access token, view this week's events in your mailbox time
zone, and create a new event.`,
	RunE: runCalendar,
}

func init() {
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Go Graph Calendar Tutorial")
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

	// The mailbox time zone drives both the week-view window and how the
	// server renders event times.
	user, err := s.userClient.GetUser(ctx, "displayName", "mailboxSettings")
	if err != nil {
		fmt.Fprintf(out, "Error getting user: %v\n", err)
		return nil
	}
	timezone := "UTC"
	if user.MailboxSettings != nil && user.MailboxSettings.TimeZone != "" {
		timezone = user.MailboxSettings.TimeZone
	}
	fmt.Fprintf(out, "Welcome %s\n", user.DisplayName)
	fmt.Fprintf(out, "Time zone: %s\n", timezone)

	runMenu(ctx, s.in, s.out, []menuItem{
		{label: "Display access token", run: s.displayUserToken},
		{label: "View this week's calendar", run: func(ctx context.Context) error {
			return s.viewWeekCalendar(ctx, timezone)
		}},
		{label: "Add an event", run: func(ctx context.Context) error {
			return s.addEvent(ctx, timezone)
		}},
	})
	return nil
}

func (s *session) viewWeekCalendar(ctx context.Context, timezone string) error {
	zone, err := tzmap.ZoneFromWindows(timezone)
	if err != nil {
		return fmt.Errorf("resolving mailbox time zone: %w", err)
	}

	// Midnight of the most recent Sunday in the user's zone; the week
	// runs to the same instant seven days on.
	now := time.Now().In(zone)
	startOfWeek := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, zone).
		AddDate(0, 0, -int(now.Weekday()))
	endOfWeek := startOfWeek.AddDate(0, 0, 7)

	events, err := s.userClient.GetCalendarView(startOfWeek, endOfWeek, timezone, 0).All(ctx)
	if err != nil {
		return fmt.Errorf("getting calendar view: %w", err)
	}

	fmt.Fprintln(s.out, "Events:")
	for _, event := range events {
		organizer := ""
		if event.Organizer != nil {
			organizer = event.Organizer.EmailAddress.Name
		}
		fmt.Fprintf(s.out, "Subject: %s\n", event.Subject)
		fmt.Fprintf(s.out, "  Organizer: %s\n", organizer)
		fmt.Fprintf(s.out, "  Start: %s\n", formatDateTimeTimeZone(event.Start))
		fmt.Fprintf(s.out, "  End: %s\n", formatDateTimeTimeZone(event.End))
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *session) addEvent(ctx context.Context, timezone string) error {
	subject := ""
	for subject == "" {
		subject = promptLine(s.in, s.out, "Subject (required): ")
	}

	var start time.Time
	for start.IsZero() {
		input := promptLine(s.in, s.out, "Start (mm/dd/yyyy hh:mm AM/PM): ")
		parsed, err := time.Parse(eventInputLayout, input)
		if err != nil {
			fmt.Fprintln(s.out, "Invalid input, try again.")
			continue
		}
		start = parsed
	}

	var end time.Time
	for end.IsZero() {
		input := promptLine(s.in, s.out, "End (mm/dd/yyyy hh:mm AM/PM): ")
		parsed, err := time.Parse(eventInputLayout, input)
		if err != nil {
			fmt.Fprintln(s.out, "Invalid input, try again.")
			continue
		}
		if parsed.Before(start) {
			fmt.Fprintln(s.out, "End time must be after start time.")
			continue
		}
		end = parsed
	}

	var attendees []string
	if yes(promptLine(s.in, s.out, "Would you like to add attendees? (y/n): ")) {
		for {
			attendee := promptLine(s.in, s.out, "Enter an email address (leave blank to finalize the list): ")
			if attendee == "" {
				break
			}
			attendees = append(attendees, attendee)
		}
	}

	body := ""
	if yes(promptLine(s.in, s.out, "Would you like to add a body? (y/n): ")) {
		body = promptLine(s.in, s.out, "Enter a body: ")
	}

	attendeeList := "NONE"
	if len(attendees) > 0 {
		attendeeList = strings.Join(attendees, ", ")
	}
	bodyDisplay := body
	if bodyDisplay == "" {
		bodyDisplay = "NONE"
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "New event:")
	fmt.Fprintf(s.out, "Subject: %s\n", subject)
	fmt.Fprintf(s.out, "Start: %s\n", start.Format(eventInputLayout))
	fmt.Fprintf(s.out, "End: %s\n", end.Format(eventInputLayout))
	fmt.Fprintf(s.out, "Attendees: %s\n", attendeeList)
	fmt.Fprintf(s.out, "Body: %s\n", bodyDisplay)

	if !yes(promptLine(s.in, s.out, "Is this correct? (y/n): ")) {
		fmt.Fprintln(s.out, "Canceling.")
		return nil
	}

	if err := s.userClient.CreateEvent(ctx, timezone, subject, start, end, attendees, body); err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	fmt.Fprintln(s.out, "Event created.")
	return nil
}

func yes(answer string) bool {
	return strings.HasPrefix(strings.ToLower(answer), "y")
}

// formatDateTimeTimeZone renders a server-provided wall-clock time for
// display, tolerating the fractional seconds Graph sometimes includes.
func formatDateTimeTimeZone(d graph.DateTimeTimeZone) string {
	parsed, err := time.Parse("2006-01-02T15:04:05.0000000", d.DateTime)
	if err != nil {
		parsed, err = time.Parse("2006-01-02T15:04:05", d.DateTime)
	}
	if err != nil {
		return fmt.Sprintf("%s (%s)", d.DateTime, d.TimeZone)
	}
	return fmt.Sprintf("%s (%s)", parsed.Format("1/2/06 3:04 PM"), d.TimeZone)
}
