package graph

import (
	"context"
)

// defaultUserFields are requested when the caller does not narrow the
// selection.
var defaultUserFields = []string{"displayName", "mail", "userPrincipalName"}

// MailboxSettings carries the subset of mailbox settings the client uses.
type MailboxSettings struct {
	TimeZone string `json:"timeZone"`
}

// User is a Graph user resource.
type User struct {
	ID                string           `json:"id,omitempty"`
	DisplayName       string           `json:"displayName"`
	Mail              string           `json:"mail"`
	UserPrincipalName string           `json:"userPrincipalName"`
	MailboxSettings   *MailboxSettings `json:"mailboxSettings,omitempty"`
}

// Email returns the user's mail address, falling back to the principal
// name for accounts without a mailbox (personal accounts in particular).
func (u User) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// GetUser fetches the signed-in user. Fields, when given, replace the
// default selection.
func (c *Client) GetUser(ctx context.Context, fields ...string) (User, error) {
	if len(fields) == 0 {
		fields = defaultUserFields
	}

	var user User
	req := NewRequest("me").Select(fields...)
	if err := c.getJSON(ctx, req, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ListUsers pages through the tenant's users ordered by display name.
// A non-positive pageSize falls back to the default.
func (c *Client) ListUsers(pageSize int) *Pager[User] {
	req := NewRequest("users").
		Select("displayName", "id", "mail").
		Top(normalisePageSize(pageSize)).
		OrderBy("displayName")
	return newPager[User](c, req)
}
