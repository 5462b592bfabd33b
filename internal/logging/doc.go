// Package logging provides slog helpers for consistent structured
// logging across the application.
//
// Credential material (OAuth tokens) must never appear in log output;
// use SanitizeToken for token values and AnonymizeEmail for addresses.
package logging
