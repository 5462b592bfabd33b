// Package inbox_tools provides MCP tools for the gmail-dashboard
// inbox.
//
// Available tools:
//
// Inbox (Read):
//   - inbox_list_emails - List recent inbox messages
//   - inbox_grouped - List recent messages grouped by client bucket
//   - inbox_summary - Per-bucket message counts
//
// Authorization:
//   - auth_status - Report whether a Google token is stored
//   - auth_url - Return the Google consent URL to authorize access
//
// The inbox tools require a stored OAuth token; without one they
// return an error pointing the caller at auth_url.
package inbox_tools
