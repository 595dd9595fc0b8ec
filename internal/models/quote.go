package models

import "time"

// Quote is a row of the global quotes view.
type Quote struct {
	ID           int64      `gorm:"column:fldQuoteID;primaryKey" json:"id"`
	Number       *string    `gorm:"column:fldQuoteNo" json:"quoteNumber"`
	Branch       *string    `gorm:"column:Branch;index" json:"branch"`
	CreatedOn    *time.Time `gorm:"column:fldQCreatedDate" json:"createdOn"`
	TotalAmount  *float64   `gorm:"column:fldUSDValue" json:"totalAmount"`
	CustomerName *string    `gorm:"column:fldCustomerName" json:"customerName"`
	Status       *string    `gorm:"column:fldQStatus" json:"quoteStatus"`
}

func (Quote) TableName() string { return "vwGlobalQuotes" }

// QuoteStats is the aggregate returned for a branch and status pair.
type QuoteStats struct {
	Branch      string  `gorm:"column:branch" json:"branch"`
	Status      string  `gorm:"column:status" json:"status"`
	QuotesCount int64   `gorm:"column:quotesCount" json:"quotesCount"`
	TotalAmount float64 `gorm:"column:totalAmount" json:"totalAmount"`
}
