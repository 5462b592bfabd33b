package gmail

import (
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// Message is a normalized message record: the four header-derived
// fields plus the preview snippet. Records are produced fresh per
// fetch and never persisted.
type Message struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"from"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// FetchError indicates a failure listing or hydrating messages,
// including a credential bundle the provider rejected.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed during %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HeaderValue extracts a header value from a Gmail message. The lookup
// is case-insensitive; a missing payload or header yields "".
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, header) {
			return h.Value
		}
	}
	return ""
}

// newRecord flattens a hydrated Gmail message into a Message.
func newRecord(id string, m *gmail.Message) Message {
	rec := Message{
		ID:      id,
		Subject: HeaderValue(m, "Subject"),
		From:    HeaderValue(m, "From"),
		Date:    HeaderValue(m, "Date"),
	}
	if m != nil {
		rec.Snippet = m.Snippet
	}
	return rec
}
