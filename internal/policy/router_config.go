// Package policy wires handlers to their dependencies and decides which
// routes need the shared API key.
package policy

import (
	"gorm.io/gorm"

	"github.com/diewo77/sms-api/auth"
	"github.com/diewo77/sms-api/internal/config"
	"github.com/diewo77/sms-api/internal/email"
	"github.com/diewo77/sms-api/internal/graph"
	"github.com/diewo77/sms-api/internal/handlers"
	"github.com/diewo77/sms-api/internal/logging"
	"github.com/diewo77/sms-api/internal/query"
)

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	// KeyChecker guards every route except the health probes
	KeyChecker *auth.KeyChecker

	QueryHandler  *handlers.QueryHandler
	EmailHandler  *handlers.EmailHandler
	HealthHandler *handlers.HealthHandler
}

// Options overrides collaborators, mostly in tests.
type Options struct {
	QuoteCreator query.QuoteCreator
	Mail         email.MessageFetcher
}

// NewRouterConfig creates a fully configured router setup. The mailbox
// client is only built when the registration is complete.
func NewRouterConfig(db *gorm.DB, cfg *config.Config, opts Options) *RouterConfig {
	router := query.NewRouter(db, opts.QuoteCreator)

	var mail handlers.RecentLister
	fetcher := opts.Mail
	if fetcher == nil && cfg.Graph.MailConfigured() {
		client, err := graph.New(cfg.Graph)
		if err != nil {
			logging.WithError(err).Warn("mailbox client disabled")
		} else {
			fetcher = client
		}
	}
	if fetcher != nil {
		mail = email.NewService(fetcher)
	} else {
		logging.Warnf("mailbox not configured, /email/recent will fail")
	}

	return &RouterConfig{
		KeyChecker:    auth.NewKeyChecker(cfg.Auth.APIKey),
		QueryHandler:  handlers.NewQueryHandler(router),
		EmailHandler:  handlers.NewEmailHandler(mail, email.NewTracker(db)),
		HealthHandler: handlers.NewHealthHandler(db),
	}
}
