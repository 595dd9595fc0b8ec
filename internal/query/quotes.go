package query

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm"

	"github.com/diewo77/sms-api/internal/logging"
	"github.com/diewo77/sms-api/internal/models"
)

func quotesByCustomer(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	customerName := in.requireStr("customerName")
	limit := in.limit(defaultCustomerLimit)
	if err := in.err(); err != nil {
		return nil, err
	}

	var out []models.Quote
	err := r.read(ctx).
		Where("fldCustomerName LIKE ?", "%"+customerName+"%").
		Order("fldQCreatedDate DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, errors.Annotatef(err, "listing quotes of %q", customerName)
	}
	return nonNil(out), nil
}

// quotesCountByBranchStatus always answers with exactly one row; the
// aggregate over no quotes is a zero count and amount.
func quotesCountByBranchStatus(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	branch := in.requireStr("branch")
	status := in.requireStr("status")
	if err := in.err(); err != nil {
		return nil, err
	}

	stats := models.QuoteStats{Branch: branch, Status: status}
	err := r.read(ctx).
		Model(&models.Quote{}).
		Select("COUNT(*) AS quotesCount, COALESCE(SUM(fldUSDValue), 0) AS totalAmount").
		Where("Branch = ? AND fldQStatus = ?", branch, status).
		Scan(&stats).Error
	if err != nil {
		return nil, errors.Annotatef(err, "counting %s quotes of branch %s", status, branch)
	}
	stats.Branch, stats.Status = branch, status
	return []models.QuoteStats{stats}, nil
}

// QuoteRequest holds the inputs of the quote creation procedure.
type QuoteRequest struct {
	CustomerID     int64
	AssetID        int64
	Branch         *string
	CreatedBy      string
	RelationshipID *int64
	Notes          *string
}

// QuoteResult is the id and number of a created quote.
type QuoteResult struct {
	ID     int64
	Number string
}

// QuoteCreator creates a quote inside the caller's transaction.
type QuoteCreator interface {
	CreateQuote(ctx context.Context, tx *gorm.DB, req QuoteRequest) (QuoteResult, error)
}

// ProcedureQuoteCreator calls dbo.uspCreateQuoteAPI and reads its output
// parameters. It only runs on SQL Server.
type ProcedureQuoteCreator struct{}

const createQuoteSQL = `SET NOCOUNT ON;
DECLARE @NewQuoteID INT, @NewQuoteNo NVARCHAR(50);
EXEC dbo.uspCreateQuoteAPI
    @CustomerID = ?,
    @AssetID = ?,
    @Branch = ?,
    @CreatedBy = ?,
    @RelationshipID = ?,
    @Notes = ?,
    @NewQuoteID = @NewQuoteID OUTPUT,
    @NewQuoteNo = @NewQuoteNo OUTPUT;
SELECT @NewQuoteID AS NewQuoteID, @NewQuoteNo AS NewQuoteNo;
`

type procedureOutput struct {
	NewQuoteID *int64  `gorm:"column:NewQuoteID"`
	NewQuoteNo *string `gorm:"column:NewQuoteNo"`
}

func (ProcedureQuoteCreator) CreateQuote(ctx context.Context, tx *gorm.DB, req QuoteRequest) (QuoteResult, error) {
	var out procedureOutput
	res := tx.WithContext(ctx).Raw(createQuoteSQL,
		req.CustomerID, req.AssetID, req.Branch, req.CreatedBy, req.RelationshipID, req.Notes,
	).Scan(&out)
	if res.Error != nil {
		return QuoteResult{}, errors.Trace(res.Error)
	}
	if res.RowsAffected == 0 || out.NewQuoteID == nil {
		return QuoteResult{}, errors.New("quote procedure returned no quote id")
	}
	result := QuoteResult{ID: *out.NewQuoteID}
	if out.NewQuoteNo != nil {
		result.Number = *out.NewQuoteNo
	}
	return result, nil
}

type createdQuote struct {
	QuoteID    int64   `json:"quoteId"`
	QuoteNo    string  `json:"quoteNo"`
	CustomerID int64   `json:"customerId"`
	AssetID    int64   `json:"assetId"`
	Branch     *string `json:"branch"`
}

func createQuoteFromAsset(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	req := QuoteRequest{
		CustomerID:     in.requireInt("customerId"),
		AssetID:        in.requireInt("assetId"),
		Branch:         in.optStr("branch"),
		CreatedBy:      createdBy(in),
		RelationshipID: in.optInt("relationshipId"),
		Notes:          in.optStr("notes"),
	}
	if err := in.err(); err != nil {
		return nil, err
	}

	var result QuoteResult
	err := r.write(ctx, "creating quote", func(tx *gorm.DB) error {
		var err error
		result, err = r.quotes.CreateQuote(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	logging.WithField("quoteNo", result.Number).WithField("customerId", req.CustomerID).Info("quote created")
	return createdQuote{
		QuoteID:    result.ID,
		QuoteNo:    result.Number,
		CustomerID: req.CustomerID,
		AssetID:    req.AssetID,
		Branch:     req.Branch,
	}, nil
}

// createdBy returns the caller supplied author or DefaultCreatedBy.
func createdBy(in *reader) string {
	if s := in.optStr("createdBy"); s != nil {
		return *s
	}
	return models.DefaultCreatedBy
}
