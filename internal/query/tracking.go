package query

import "github.com/diewo77/sms-api/internal/models"

// TrackingRecord reads an email tracking record from p. Ids accept JSON
// numbers or numeric strings like every other parameter; the message id
// itself is checked by the tracker.
func TrackingRecord(p Params) (models.EmailQuoteTracking, error) {
	in := newReader(p)
	rec := models.EmailQuoteTracking{
		InternetMessageID: in.str("internetMessageId"),
		ForwardedEmailID:  in.nullStr("forwardedEmailId"),
		Subject:           in.nullStr("subject"),
		FromAddress:       in.nullStr("from"),
		CustomerID:        in.optInt("customerId"),
		AssetID:           in.optInt("assetId"),
		QuoteID:           in.optInt("quoteId"),
		QuoteNo:           in.nullStr("quoteNo"),
		Notes:             in.nullStr("notes"),
	}
	if err := in.err(); err != nil {
		return models.EmailQuoteTracking{}, err
	}
	return rec, nil
}
