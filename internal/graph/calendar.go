package graph

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// localDateTimeLayout renders a wall-clock time without an offset, which
// is how the calendar endpoints expect dateTime values when the zone is
// carried alongside.
const localDateTimeLayout = "2006-01-02T15:04:05"

// DateTimeTimeZone pairs a wall-clock time with the time zone it is
// expressed in, in either Windows or IANA naming.
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Event is a calendar event, narrowed to the fields the client selects.
type Event struct {
	Subject   string           `json:"subject"`
	Organizer *Recipient       `json:"organizer,omitempty"`
	Start     DateTimeTimeZone `json:"start"`
	End       DateTimeTimeZone `json:"end"`
}

type attendee struct {
	Type         string       `json:"type"`
	EmailAddress EmailAddress `json:"emailAddress"`
}

type newEvent struct {
	Subject   string           `json:"subject"`
	Start     DateTimeTimeZone `json:"start"`
	End       DateTimeTimeZone `json:"end"`
	Attendees []attendee       `json:"attendees,omitempty"`
	Body      *ItemBody        `json:"body,omitempty"`
}

// GetCalendarView pages through the signed-in user's calendar view
// between start and end. Returned event times are rendered in the given
// time zone via the Prefer header, which survives to follow-up pages.
// A non-positive pageSize falls back to the default.
func (c *Client) GetCalendarView(start, end time.Time, timezone string, pageSize int) *Pager[Event] {
	req := NewRequest("me", "calendarView").
		Query("startDateTime", start.Format(time.RFC3339)).
		Query("endDateTime", end.Format(time.RFC3339)).
		Select("subject", "organizer", "start", "end").
		Top(normalisePageSize(pageSize)).
		OrderBy("start/dateTime").
		Header("Prefer", fmt.Sprintf("outlook.timezone=%q", timezone))
	return newPager[Event](c, req)
}

// CreateEvent creates an event on the signed-in user's default calendar.
// Start and end are treated as wall-clock times in the given zone.
// Attendees are invited as required; body may be empty.
func (c *Client) CreateEvent(ctx context.Context, timezone, subject string, start, end time.Time, attendees []string, body string) error {
	payload := newEvent{
		Subject: subject,
		Start: DateTimeTimeZone{
			DateTime: start.Format(localDateTimeLayout),
			TimeZone: timezone,
		},
		End: DateTimeTimeZone{
			DateTime: end.Format(localDateTimeLayout),
			TimeZone: timezone,
		},
	}
	for _, address := range attendees {
		payload.Attendees = append(payload.Attendees, attendee{
			Type:         "required",
			EmailAddress: EmailAddress{Address: address},
		})
	}
	if body != "" {
		payload.Body = &ItemBody{ContentType: "text", Content: body}
	}

	req := NewRequest("me", "events").JSON(payload)
	return c.sendExpect(ctx, req, http.StatusCreated)
}
