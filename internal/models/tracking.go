package models

// EmailQuoteTracking links an email, by its global message identifier, to
// the quote created from it. Nothing in the schema makes InternetMessageID
// unique, so several rows may exist for one message.
type EmailQuoteTracking struct {
	InternetMessageID string  `gorm:"column:InternetMessageID;size:512;index" json:"internetMessageId"`
	ForwardedEmailID  *string `gorm:"column:ForwardedEmailID;size:512" json:"forwardedEmailId"`
	Subject           *string `gorm:"column:Subject" json:"subject"`
	FromAddress       *string `gorm:"column:FromAddress;size:320" json:"from"`
	CustomerID        *int64  `gorm:"column:fldCustomerID" json:"customerId"`
	AssetID           *int64  `gorm:"column:fldAssetID" json:"assetId"`
	QuoteID           *int64  `gorm:"column:fldQuoteID" json:"quoteId"`
	QuoteNo           *string `gorm:"column:fldQuoteNo;size:50" json:"quoteNo"`
	Notes             *string `gorm:"column:fldNotes" json:"notes"`
}

func (EmailQuoteTracking) TableName() string { return "tblEmailQuoteTracking" }
