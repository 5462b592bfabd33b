package gmail

import (
	"context"
	"fmt"
	"net/http"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// user is the Gmail API user identifier for the authenticated account.
const user = "me"

// API is the subset of the Gmail surface the fetcher consumes: list
// message identifiers, then hydrate each one.
type API interface {
	ListMessageIDs(ctx context.Context, maxResults int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (*gmail.Message, error)
}

// Client wraps the Gmail Users service behind the API interface.
type Client struct {
	svc *gmail.UsersService
}

// NewClient creates a Gmail client over the given authenticated HTTP
// client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users}, nil
}

// ListMessageIDs lists up to maxResults message identifiers from the
// user's mailbox, newest first, in the order the API returns them.
func (c *Client) ListMessageIDs(ctx context.Context, maxResults int64) ([]string, error) {
	res, err := c.svc.Messages.List(user).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessage retrieves the full message for the given identifier.
func (c *Client) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get(user, id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	return msg, nil
}
