// Package email links mailbox messages to the quotes created from them.
package email

import (
	"context"
	"encoding/json"

	"github.com/juju/errors"
	"gorm.io/gorm"

	"github.com/diewo77/sms-api/internal/graph"
	"github.com/diewo77/sms-api/internal/logging"
	"github.com/diewo77/sms-api/internal/models"
	"github.com/diewo77/sms-api/validation"
)

// DefaultRecentLimit is the number of messages listed when no limit is given.
const DefaultRecentLimit = 5

// MessageFetcher lists the newest messages of the mailbox.
type MessageFetcher interface {
	FetchRecent(ctx context.Context, top int) ([]graph.Message, error)
}

// Message is a mailbox message with its body reduced to plain text.
type Message struct {
	ID                string   `json:"id"`
	InternetMessageID *string  `json:"internetMessageId"`
	InReplyTo         *string  `json:"inReplyTo"`
	From              *string  `json:"from"`
	To                []string `json:"to"`
	Subject           *string  `json:"subject"`
	BodyText          string   `json:"bodyText"`
}

type Service struct {
	fetcher MessageFetcher
}

func NewService(f MessageFetcher) *Service {
	return &Service{fetcher: f}
}

// Recent returns the newest limit messages, DefaultRecentLimit when limit is
// not positive.
func (s *Service) Recent(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	raw, err := s.fetcher.FetchRecent(ctx, limit)
	if err != nil {
		return nil, errors.Trace(err)
	}
	out := make([]Message, 0, len(raw))
	for _, m := range raw {
		to := m.To
		if to == nil {
			to = []string{}
		}
		out = append(out, Message{
			ID:                m.ID,
			InternetMessageID: m.InternetMessageID,
			InReplyTo:         m.InReplyTo,
			From:              m.From,
			To:                to,
			Subject:           m.Subject,
			BodyText:          HTMLToText(m.BodyHTML),
		})
	}
	return out, nil
}

// Status answers whether a message was already turned into a quote.
type Status struct {
	Processed  bool
	QuoteID    *int64
	QuoteNo    *string
	CustomerID *int64
	AssetID    *int64
}

// MarshalJSON omits the linkage fields when the message was not processed.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Processed {
		return []byte(`{"processed":false}`), nil
	}
	return json.Marshal(struct {
		Processed  bool    `json:"processed"`
		QuoteID    *int64  `json:"quoteId"`
		QuoteNo    *string `json:"quoteNo"`
		CustomerID *int64  `json:"customerId"`
		AssetID    *int64  `json:"assetId"`
	}{true, s.QuoteID, s.QuoteNo, s.CustomerID, s.AssetID})
}

// Tracker reads and writes tracking records.
type Tracker struct {
	db *gorm.DB
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{db: db}
}

// WasProcessed looks up the first tracking record for internetMessageID.
func (t *Tracker) WasProcessed(ctx context.Context, internetMessageID string) (Status, error) {
	v := make(validation.Violations)
	validation.Required("internetMessageId", internetMessageID, v)
	if err := v.Err(); err != nil {
		return Status{}, err
	}

	var rec models.EmailQuoteTracking
	err := t.db.WithContext(ctx).
		Select("fldQuoteID", "fldQuoteNo", "fldCustomerID", "fldAssetID").
		Where("InternetMessageID = ?", internetMessageID).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, errors.Annotatef(err, "looking up tracking for %q", internetMessageID)
	}
	return Status{
		Processed:  true,
		QuoteID:    rec.QuoteID,
		QuoteNo:    rec.QuoteNo,
		CustomerID: rec.CustomerID,
		AssetID:    rec.AssetID,
	}, nil
}

// Track records that rec.InternetMessageID was linked to a quote. Repeated
// calls for one message insert repeated rows.
func (t *Tracker) Track(ctx context.Context, rec models.EmailQuoteTracking) error {
	v := make(validation.Violations)
	validation.Required("internetMessageId", rec.InternetMessageID, v)
	if err := v.Err(); err != nil {
		return err
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rec).Error
	})
	if err != nil {
		logging.WithError(err).WithField("internetMessageId", rec.InternetMessageID).Error("tracking email failed")
		return errors.Annotate(err, "inserting tracking record")
	}
	logging.WithField("internetMessageId", rec.InternetMessageID).Info("email tracked")
	return nil
}
