package query

import (
	"context"

	"github.com/juju/errors"

	"github.com/diewo77/sms-api/internal/models"
)

const (
	defaultCustomerLimit = 20
	defaultListLimit     = 50
)

func searchCustomers(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	name := in.str("name")
	limit := in.limit(defaultCustomerLimit)
	if err := in.err(); err != nil {
		return nil, err
	}

	q := r.read(ctx).Model(&models.Customer{})
	if name != "" {
		q = q.Where("fldCustomerName LIKE ?", "%"+name+"%")
	}
	var out []models.Customer
	if err := q.Order("fldCustomerID DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, errors.Annotate(err, "searching customers")
	}
	return nonNil(out), nil
}

func customerContacts(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	customerID := in.requireInt("customerId")
	limit := in.limit(defaultListLimit)
	if err := in.err(); err != nil {
		return nil, err
	}

	var out []models.Contact
	err := r.read(ctx).
		Where("fldCustomerID = ?", customerID).
		Order("fldFullName").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, errors.Annotatef(err, "listing contacts of customer %d", customerID)
	}
	return nonNil(out), nil
}
