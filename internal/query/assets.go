package query

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm"

	"github.com/diewo77/sms-api/internal/models"
	"github.com/diewo77/sms-api/validation"
)

// assetsByCustomer prefers an exact vessel name match. Only when nothing
// matches exactly does it fall back to a substring search with filters.
func assetsByCustomer(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	limit := in.limit(defaultListLimit)
	customerID, _ := in.int("customerId")
	vesselName := in.str("vesselName")
	assetTypeID := in.optInt("assetTypeId")
	assetType := in.str("assetType")
	country := in.str("country")
	interCo := in.bool("interCo")
	blocked := in.bool("blocked")
	assetDeleted := in.bool("assetDeleted")
	validation.AnyOf([]string{"customerId", "vesselName"}, customerID != 0 || vesselName != "", in.v)
	if err := in.err(); err != nil {
		return nil, err
	}

	forCustomer := func(q *gorm.DB) *gorm.DB {
		if customerID != 0 {
			return q.Where("fldCustomerID = ?", customerID)
		}
		return q
	}

	if vesselName != "" {
		var exact []models.Asset
		err := r.read(ctx).
			Scopes(forCustomer).
			Where("fldVName = ?", vesselName).
			Limit(limit).
			Find(&exact).Error
		if err != nil {
			return nil, errors.Annotatef(err, "looking up vessel %q", vesselName)
		}
		if len(exact) > 0 {
			return exact, nil
		}
	}

	q := r.read(ctx).Scopes(forCustomer)
	if vesselName != "" {
		q = q.Where("fldVName LIKE ?", "%"+vesselName+"%")
	}
	if assetTypeID != nil {
		q = q.Where("fldAssetTypeID = ?", *assetTypeID)
	}
	if assetType != "" {
		q = q.Where("fldAssetType LIKE ?", "%"+assetType+"%")
	}
	if country != "" {
		q = q.Where("fldCountry = ?", country)
	}
	if interCo != nil {
		q = q.Where("fldInterCo = ?", *interCo)
	}
	if blocked != nil {
		q = q.Where("fldBlocked = ?", *blocked)
	}
	if assetDeleted != nil {
		q = q.Where("AssetDeleted = ?", *assetDeleted)
	}

	var out []models.Asset
	if err := q.Order("fldAssetID DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, errors.Annotate(err, "searching assets")
	}
	return nonNil(out), nil
}

// searchAssetsGlobal searches vessels across every customer.
func searchAssetsGlobal(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	vesselName := in.requireStr("vesselName")
	limit := in.limit(defaultListLimit)
	if err := in.err(); err != nil {
		return nil, err
	}

	var out []models.Asset
	err := r.read(ctx).
		Where("fldVName LIKE ?", "%"+vesselName+"%").
		Order("fldAssetID DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, errors.Annotatef(err, "searching vessel %q", vesselName)
	}
	return nonNil(out), nil
}
