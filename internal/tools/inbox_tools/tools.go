package inbox_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ejack923/gmail-dashboard-backend/internal/google"
	"github.com/ejack923/gmail-dashboard-backend/internal/inbox"
	"github.com/ejack923/gmail-dashboard-backend/internal/instrumentation"
)

// getLimitFromArgs extracts the optional message limit, returning 0
// (meaning "use the configured default") when absent or invalid.
func getLimitFromArgs(args map[string]interface{}) int {
	if v, ok := args["limit"].(float64); ok && v > 0 {
		return int(v)
	}
	return 0
}

// toolHandler is the shape shared by all inbox tool handlers.
type toolHandler func(ctx context.Context, request mcp.CallToolRequest, svc *inbox.Service) (*mcp.CallToolResult, error)

// instrumented wraps a handler with tool metrics and a span.
func instrumented(name string, svc *inbox.Service, metrics *instrumentation.Metrics, handler toolHandler) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, name)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request, svc)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, name, status, time.Since(start))
		}

		return result, err
	}
}

// RegisterInboxTools registers the inbox and authorization tools with
// the MCP server. metrics may be nil.
func RegisterInboxTools(s *mcpserver.MCPServer, svc *inbox.Service, metrics *instrumentation.Metrics) error {
	listEmailsTool := mcp.NewTool("inbox_list_emails",
		mcp.WithDescription("List recent inbox messages with subject, sender, date, and snippet"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to return (default: configured fetch limit)"),
		),
	)
	s.AddTool(listEmailsTool, instrumented("inbox_list_emails", svc, metrics, handleListEmails))

	groupedTool := mcp.NewTool("inbox_grouped",
		mcp.WithDescription("List recent inbox messages grouped by client bucket"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to fetch before grouping (default: configured fetch limit)"),
		),
	)
	s.AddTool(groupedTool, instrumented("inbox_grouped", svc, metrics, handleGrouped))

	summaryTool := mcp.NewTool("inbox_summary",
		mcp.WithDescription("Count recent inbox messages per client bucket"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to count (default: configured fetch limit)"),
		),
	)
	s.AddTool(summaryTool, instrumented("inbox_summary", svc, metrics, handleSummary))

	authStatusTool := mcp.NewTool("auth_status",
		mcp.WithDescription("Report whether a Google OAuth token is stored"),
	)
	s.AddTool(authStatusTool, instrumented("auth_status", svc, metrics, handleAuthStatus))

	authURLTool := mcp.NewTool("auth_url",
		mcp.WithDescription("Return the Google consent URL to authorize inbox access"),
	)
	s.AddTool(authURLTool, instrumented("auth_url", svc, metrics, handleAuthURL))

	return nil
}

func handleListEmails(ctx context.Context, request mcp.CallToolRequest, svc *inbox.Service) (*mcp.CallToolResult, error) {
	limit := getLimitFromArgs(request.GetArguments())

	messages, err := svc.ListEmails(ctx, limit)
	if err != nil {
		return fetchErrorResult(err), nil
	}

	return jsonResult(messages)
}

func handleGrouped(ctx context.Context, request mcp.CallToolRequest, svc *inbox.Service) (*mcp.CallToolResult, error) {
	limit := getLimitFromArgs(request.GetArguments())

	grouped, err := svc.GroupedInbox(ctx, limit)
	if err != nil {
		return fetchErrorResult(err), nil
	}

	return jsonResult(grouped)
}

func handleSummary(ctx context.Context, request mcp.CallToolRequest, svc *inbox.Service) (*mcp.CallToolResult, error) {
	limit := getLimitFromArgs(request.GetArguments())

	summary, err := svc.InboxSummary(ctx, limit)
	if err != nil {
		return fetchErrorResult(err), nil
	}

	return jsonResult(summary)
}

func handleAuthStatus(_ context.Context, _ mcp.CallToolRequest, svc *inbox.Service) (*mcp.CallToolResult, error) {
	if svc.IsAuthorized() {
		return mcp.NewToolResultText("Authorized: a Google OAuth token is stored."), nil
	}
	return mcp.NewToolResultText("Not authorized: no stored token. Use the auth_url tool to start authorization."), nil
}

func handleAuthURL(_ context.Context, _ mcp.CallToolRequest, svc *inbox.Service) (*mcp.CallToolResult, error) {
	url := svc.StartAuthorization()
	return mcp.NewToolResultText(fmt.Sprintf(`To authorize inbox access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account and grant read access to Gmail
3. You will be redirected to the dashboard's callback URL, which stores the token

You only need to authorize once. The token is refreshed automatically.`, url)), nil
}

func fetchErrorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, google.ErrNotAuthorized) {
		return mcp.NewToolResultError("No Google OAuth token is stored. Use the auth_url tool to start authorization.")
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch inbox: %v", err))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
