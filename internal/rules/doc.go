// Package rules loads and holds the keyword rules that map messages to
// client buckets.
//
// Rules are loaded once at startup and treated as read-only for the
// process lifetime. Order is significant: the first matching rule wins.
package rules
