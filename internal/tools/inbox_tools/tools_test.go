package inbox_tools

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/ejack923/gmail-dashboard-backend/internal/config"
	"github.com/ejack923/gmail-dashboard-backend/internal/gmail"
	"github.com/ejack923/gmail-dashboard-backend/internal/google"
	"github.com/ejack923/gmail-dashboard-backend/internal/inbox"
	"github.com/ejack923/gmail-dashboard-backend/internal/rules"
)

const testCredentials = `{
  "web": {
    "client_id": "client-id-123.apps.googleusercontent.com",
    "client_secret": "secret-xyz",
    "redirect_uris": ["https://dash.example.com/oauth2callback"]
  }
}`

type stubAPI struct {
	ids       []string
	messages  map[string]*gmailapi.Message
	lastLimit int64
}

func (s *stubAPI) ListMessageIDs(_ context.Context, maxResults int64) ([]string, error) {
	s.lastLimit = maxResults
	if int64(len(s.ids)) > maxResults {
		return s.ids[:maxResults], nil
	}
	return s.ids, nil
}

func (s *stubAPI) GetMessage(_ context.Context, id string) (*gmailapi.Message, error) {
	m, ok := s.messages[id]
	if !ok {
		return nil, errors.New("message not found: " + id)
	}
	return m, nil
}

func stubMessage(id, subject, from string) *gmailapi.Message {
	return &gmailapi.Message{
		Id: id,
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "Subject", Value: subject},
				{Name: "From", Value: from},
			},
		},
	}
}

func newTestService(t *testing.T, api gmail.API, authorized bool) *inbox.Service {
	t.Helper()

	dir := t.TempDir()
	credPath := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(credPath, []byte(testCredentials), 0o600); err != nil {
		t.Fatal(err)
	}

	flow, err := google.NewAuthFlow(credPath, "")
	if err != nil {
		t.Fatalf("failed to create auth flow: %v", err)
	}

	store := google.NewTokenStore(filepath.Join(dir, "token.json"))
	if authorized {
		if err := store.Save(&oauth2.Token{AccessToken: "stub-token"}); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}
	}

	rs, err := rules.New([]rules.Rule{
		{Name: "Acme Co", Keywords: []string{"acme"}},
	})
	if err != nil {
		t.Fatalf("failed to build rules: %v", err)
	}

	return inbox.NewService(flow, store, rs, config.FetchConfig{
		DefaultLimit: 25,
		Concurrency:  2,
	}, inbox.WithAPIFactory(func(ctx context.Context) (gmail.API, error) {
		return api, nil
	}))
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected non-empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestGetLimitFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want int
	}{
		{"absent", map[string]interface{}{}, 0},
		{"valid", map[string]interface{}{"limit": float64(10)}, 10},
		{"zero", map[string]interface{}{"limit": float64(0)}, 0},
		{"negative", map[string]interface{}{"limit": float64(-5)}, 0},
		{"wrong type", map[string]interface{}{"limit": "ten"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getLimitFromArgs(tt.args); got != tt.want {
				t.Errorf("getLimitFromArgs() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandleListEmailsNotAuthorized(t *testing.T) {
	svc := newTestService(t, &stubAPI{}, false)

	result, err := handleListEmails(context.Background(), toolRequest("inbox_list_emails", nil), svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsError {
		t.Error("expected an error result without a stored token")
	}
}

func TestHandleListEmails(t *testing.T) {
	api := &stubAPI{
		ids: []string{"a"},
		messages: map[string]*gmailapi.Message{
			"a": stubMessage("a", "acme order", "billing@acme.example"),
		},
	}
	svc := newTestService(t, api, true)

	request := toolRequest("inbox_list_emails", map[string]interface{}{"limit": float64(5)})
	result, err := handleListEmails(context.Background(), request, svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var messages []gmail.Message
	if err := json.Unmarshal([]byte(resultText(t, result)), &messages); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if len(messages) != 1 || messages[0].Subject != "acme order" {
		t.Errorf("unexpected messages: %+v", messages)
	}

	if api.lastLimit != 5 {
		t.Errorf("expected limit 5 to reach the API, got %d", api.lastLimit)
	}
}

func TestHandleGrouped(t *testing.T) {
	api := &stubAPI{
		ids: []string{"a", "b"},
		messages: map[string]*gmailapi.Message{
			"a": stubMessage("a", "acme order", "billing@acme.example"),
			"b": stubMessage("b", "hello", "friend@example.com"),
		},
	}
	svc := newTestService(t, api, true)

	result, err := handleGrouped(context.Background(), toolRequest("inbox_grouped", nil), svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var grouped map[string][]gmail.Message
	if err := json.Unmarshal([]byte(resultText(t, result)), &grouped); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if len(grouped["Acme Co"]) != 1 || len(grouped["Unassigned"]) != 1 {
		t.Errorf("unexpected grouping: %+v", grouped)
	}
}

func TestHandleSummary(t *testing.T) {
	api := &stubAPI{
		ids: []string{"a", "b"},
		messages: map[string]*gmailapi.Message{
			"a": stubMessage("a", "acme order", "billing@acme.example"),
			"b": stubMessage("b", "hello", "friend@example.com"),
		},
	}
	svc := newTestService(t, api, true)

	result, err := handleSummary(context.Background(), toolRequest("inbox_summary", nil), svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var summary inbox.Summary
	if err := json.Unmarshal([]byte(resultText(t, result)), &summary); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if summary.Total != 2 {
		t.Errorf("expected total 2, got %d", summary.Total)
	}
	if summary.ByBucket["Acme Co"] != 1 || summary.ByBucket["Unassigned"] != 1 {
		t.Errorf("unexpected bucket counts: %+v", summary.ByBucket)
	}
}

func TestHandleAuthStatus(t *testing.T) {
	svc := newTestService(t, &stubAPI{}, false)

	result, err := handleAuthStatus(context.Background(), toolRequest("auth_status", nil), svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if text != "Not authorized: no stored token. Use the auth_url tool to start authorization." {
		t.Errorf("unexpected status text: %q", text)
	}

	svc = newTestService(t, &stubAPI{}, true)
	result, err = handleAuthStatus(context.Background(), toolRequest("auth_status", nil), svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resultText(t, result) != "Authorized: a Google OAuth token is stored." {
		t.Errorf("unexpected status text: %q", resultText(t, result))
	}
}

func TestHandleAuthURL(t *testing.T) {
	svc := newTestService(t, &stubAPI{}, false)

	result, err := handleAuthURL(context.Background(), toolRequest("auth_url", nil), svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "client_id=client-id-123") {
		t.Errorf("expected consent URL in result, got: %q", text)
	}
}
