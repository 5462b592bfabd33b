package gmail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
)

// fakeAPI serves canned messages, optionally failing or delaying
// individual hydrations.
type fakeAPI struct {
	ids      []string
	messages map[string]*gmail.Message
	listErr  error
	getErr   map[string]error
	delays   map[string]time.Duration

	mu       sync.Mutex
	getCalls int
}

func (f *fakeAPI) ListMessageIDs(_ context.Context, maxResults int64) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if int64(len(f.ids)) > maxResults {
		return f.ids[:maxResults], nil
	}
	return f.ids, nil
}

func (f *fakeAPI) GetMessage(_ context.Context, id string) (*gmail.Message, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()

	if d, ok := f.delays[id]; ok {
		time.Sleep(d)
	}
	if err, ok := f.getErr[id]; ok {
		return nil, err
	}
	return f.messages[id], nil
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

func msgWithHeaders(snippet string, headers map[string]string) *gmail.Message {
	m := &gmail.Message{Snippet: snippet, Payload: &gmail.MessagePart{}}
	for name, value := range headers {
		m.Payload.Headers = append(m.Payload.Headers, &gmail.MessagePartHeader{Name: name, Value: value})
	}
	return m
}

func TestFetchMessagesPreservesListOrder(t *testing.T) {
	// id3 first in list order but slowest to hydrate.
	api := &fakeAPI{
		ids: []string{"id3", "id1", "id2"},
		messages: map[string]*gmail.Message{
			"id3": msgWithHeaders("s3", map[string]string{"Subject": "three"}),
			"id1": msgWithHeaders("s1", map[string]string{"Subject": "one"}),
			"id2": msgWithHeaders("s2", map[string]string{"Subject": "two"}),
		},
		delays: map[string]time.Duration{
			"id3": 30 * time.Millisecond,
			"id1": 10 * time.Millisecond,
		},
	}

	records, err := NewFetcher(api, 4).FetchMessages(context.Background(), 10)
	require.NoError(t, err)

	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.ID
	}
	assert.Equal(t, []string{"id3", "id1", "id2"}, got)
}

func TestFetchMessagesHydratesFields(t *testing.T) {
	api := &fakeAPI{
		ids: []string{"m1"},
		messages: map[string]*gmail.Message{
			"m1": msgWithHeaders("preview text", map[string]string{
				"Subject": "October Invoice",
				"From":    "billing@acme.com",
				"Date":    "Wed, 01 Oct 2025 10:00:00 +0000",
			}),
		},
	}

	records, err := NewFetcher(api, 1).FetchMessages(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, Message{
		ID:      "m1",
		Subject: "October Invoice",
		From:    "billing@acme.com",
		Date:    "Wed, 01 Oct 2025 10:00:00 +0000",
		Snippet: "preview text",
	}, records[0])
}

func TestFetchMessagesMissingHeadersYieldEmptyStrings(t *testing.T) {
	api := &fakeAPI{
		ids: []string{"m1"},
		messages: map[string]*gmail.Message{
			"m1": {Snippet: "no headers at all"},
		},
	}

	records, err := NewFetcher(api, 1).FetchMessages(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Empty(t, records[0].Subject)
	assert.Empty(t, records[0].From)
	assert.Empty(t, records[0].Date)
	assert.Equal(t, "no headers at all", records[0].Snippet)
}

func TestFetchMessagesHeaderLookupIsCaseInsensitive(t *testing.T) {
	api := &fakeAPI{
		ids: []string{"m1"},
		messages: map[string]*gmail.Message{
			"m1": msgWithHeaders("", map[string]string{
				"subject": "lower",
				"FROM":    "upper@x.com",
			}),
		},
	}

	records, err := NewFetcher(api, 1).FetchMessages(context.Background(), 25)
	require.NoError(t, err)

	assert.Equal(t, "lower", records[0].Subject)
	assert.Equal(t, "upper@x.com", records[0].From)
}

func TestFetchMessagesListFailure(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("token rejected")}

	_, err := NewFetcher(api, 4).FetchMessages(context.Background(), 25)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "list", fetchErr.Op)
	assert.Zero(t, api.calls(), "no hydration should run after a failed list")
}

func TestFetchMessagesSingleHydrationFailureFailsAll(t *testing.T) {
	api := &fakeAPI{
		ids: []string{"a", "b", "c"},
		messages: map[string]*gmail.Message{
			"a": msgWithHeaders("", nil),
			"c": msgWithHeaders("", nil),
		},
		getErr: map[string]error{"b": errors.New("boom")},
	}

	records, err := NewFetcher(api, 2).FetchMessages(context.Background(), 25)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "hydrate", fetchErr.Op)
	assert.Nil(t, records, "no partial results on failure")
}

func TestFetchMessagesRespectsLimit(t *testing.T) {
	api := &fakeAPI{
		ids: []string{"a", "b", "c", "d"},
		messages: map[string]*gmail.Message{
			"a": msgWithHeaders("", nil),
			"b": msgWithHeaders("", nil),
		},
	}

	records, err := NewFetcher(api, 4).FetchMessages(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFetchMessagesEmptyMailbox(t *testing.T) {
	api := &fakeAPI{ids: nil}

	records, err := NewFetcher(api, 4).FetchMessages(context.Background(), 25)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, api.calls())
}

func TestHeaderValueNilPayload(t *testing.T) {
	assert.Equal(t, "", HeaderValue(nil, "Subject"))
	assert.Equal(t, "", HeaderValue(&gmail.Message{}, "Subject"))
}
