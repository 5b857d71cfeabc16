package graph

import (
	"context"
	"net/http"
	"time"
)

// EmailAddress names a mail participant.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// Recipient wraps an address the way the mail resources expect it.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// ItemBody is the body of a message or event.
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Message is an inbox message, narrowed to the fields the client selects.
type Message struct {
	Subject          string     `json:"subject"`
	From             *Recipient `json:"from,omitempty"`
	IsRead           bool       `json:"isRead"`
	ReceivedDateTime time.Time  `json:"receivedDateTime"`
}

type sendMailBody struct {
	Message outgoingMessage `json:"message"`
}

type outgoingMessage struct {
	Subject      string      `json:"subject"`
	Body         ItemBody    `json:"body"`
	ToRecipients []Recipient `json:"toRecipients"`
}

// GetInbox pages through the signed-in user's inbox, newest first. A
// non-positive pageSize falls back to the default.
func (c *Client) GetInbox(pageSize int) *Pager[Message] {
	req := NewRequest("me", "mailFolders", "inbox", "messages").
		Select("from", "isRead", "receivedDateTime", "subject").
		Top(normalisePageSize(pageSize)).
		OrderBy("receivedDateTime DESC")
	return newPager[Message](c, req)
}

// SendMail sends a plain-text message to a single recipient as the
// signed-in user.
func (c *Client) SendMail(ctx context.Context, subject, body, recipient string) error {
	payload := sendMailBody{
		Message: outgoingMessage{
			Subject: subject,
			Body: ItemBody{
				ContentType: "text",
				Content:     body,
			},
			ToRecipients: []Recipient{
				{EmailAddress: EmailAddress{Address: recipient}},
			},
		},
	}

	req := NewRequest("me", "sendMail").JSON(payload)
	return c.sendExpect(ctx, req, http.StatusAccepted)
}
