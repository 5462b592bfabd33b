package inbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/ejack923/gmail-dashboard-backend/internal/config"
	"github.com/ejack923/gmail-dashboard-backend/internal/gmail"
	"github.com/ejack923/gmail-dashboard-backend/internal/google"
	"github.com/ejack923/gmail-dashboard-backend/internal/instrumentation"
	"github.com/ejack923/gmail-dashboard-backend/internal/logging"
	"github.com/ejack923/gmail-dashboard-backend/internal/rules"
)

// APIFactory produces a Gmail API handle for a single request. The
// default factory builds an authenticated client from the stored
// token; tests substitute their own.
type APIFactory func(ctx context.Context) (gmail.API, error)

// Service ties the authorization flow, token persistence, and the
// classifier together behind the boundary operations the HTTP and MCP
// surfaces expose.
type Service struct {
	flow    *google.AuthFlow
	store   *google.TokenStore
	rules   *rules.RuleSet
	fetch   config.FetchConfig
	apiFor  APIFactory
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithAPIFactory replaces the Gmail API construction. Used by tests to
// avoid the network.
func WithAPIFactory(f APIFactory) Option {
	return func(s *Service) {
		s.apiFor = f
	}
}

// WithMetrics enables metrics recording on the service.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the service logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service. The rule set and fetch configuration
// are fixed for the lifetime of the service.
func NewService(flow *google.AuthFlow, store *google.TokenStore, rs *rules.RuleSet, fetch config.FetchConfig, opts ...Option) *Service {
	s := &Service{
		flow:   flow,
		store:  store,
		rules:  rs,
		fetch:  fetch,
		logger: slog.Default(),
	}
	s.apiFor = s.authorizedAPI

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Rules exposes the rule set the service classifies with.
func (s *Service) Rules() *rules.RuleSet {
	return s.rules
}

// IsAuthorized reports whether a stored token exists.
func (s *Service) IsAuthorized() bool {
	return s.store.IsAuthorized()
}

// StartAuthorization returns the Google consent URL the user must
// visit to authorize the application.
func (s *Service) StartAuthorization() string {
	url := s.flow.AuthURL()
	s.logger.Info("authorization started", logging.Operation("start_authorization"))
	return url
}

// CompleteAuthorization exchanges the authorization code and persists
// the resulting token. Nothing is stored when the exchange fails.
func (s *Service) CompleteAuthorization(ctx context.Context, code string) error {
	tok, err := s.flow.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("code exchange failed", logging.Operation("complete_authorization"), logging.Err(err))
		if s.metrics != nil {
			s.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		}
		return err
	}

	if err := s.store.Save(tok); err != nil {
		s.logger.Error("token persistence failed", logging.Operation("complete_authorization"), logging.Err(err))
		if s.metrics != nil {
			s.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		}
		return err
	}

	s.logger.Info("authorization completed", logging.Operation("complete_authorization"))
	if s.metrics != nil {
		s.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
	}
	return nil
}

// ListEmails fetches up to limit messages from the inbox. A limit of
// zero or less falls back to the configured default. Without a stored
// token it fails with google.ErrNotAuthorized before touching the
// network.
func (s *Service) ListEmails(ctx context.Context, limit int) ([]gmail.Message, error) {
	if !s.store.IsAuthorized() {
		return nil, google.ErrNotAuthorized
	}
	if limit <= 0 {
		limit = s.fetch.DefaultLimit
	}

	api, err := s.apiFor(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	fetcher := gmail.NewFetcher(api, s.fetch.Concurrency)
	messages, err := fetcher.FetchMessages(ctx, int64(limit))
	if s.metrics != nil {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
		}
		s.metrics.RecordGmailFetch(ctx, status, time.Since(start))
	}
	if err != nil {
		s.logger.Error("message fetch failed", logging.Operation("list_emails"), logging.Err(err))
		return nil, err
	}

	s.logger.Info("messages fetched", logging.Operation("list_emails"), logging.Count(len(messages)))
	return messages, nil
}

// GroupedInbox fetches messages and partitions them by bucket.
func (s *Service) GroupedInbox(ctx context.Context, limit int) (map[string][]gmail.Message, error) {
	messages, err := s.ListEmails(ctx, limit)
	if err != nil {
		return nil, err
	}

	grouped := GroupByBucket(messages, s.rules)
	if s.metrics != nil {
		for bucket, msgs := range grouped {
			s.metrics.RecordClassification(ctx, bucket, len(msgs))
		}
	}
	return grouped, nil
}

// InboxSummary fetches messages and returns per-bucket counts.
func (s *Service) InboxSummary(ctx context.Context, limit int) (Summary, error) {
	messages, err := s.ListEmails(ctx, limit)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(messages, s.rules), nil
}

// authorizedAPI is the default API factory: it loads the stored token
// and builds a Gmail client around the refreshing OAuth HTTP client.
func (s *Service) authorizedAPI(ctx context.Context) (gmail.API, error) {
	tok, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return gmail.NewClient(ctx, s.flow.HTTPClient(ctx, tok))
}
