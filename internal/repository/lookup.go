package repository

import (
	"context"

	"github.com/erlove000/business-services/internal/repository/querybuilder"
	"github.com/erlove000/business-services/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

// Auxiliary lookups against the connection and property tables owned by
// other services. A failed lookup is logged and yields an empty result so
// that callers enriching receipts can carry on without it.

// OldConnectionNumber returns the legacy connection numbers of a water connection.
func (r *PaymentRepository) OldConnectionNumber(ctx context.Context, consumerCode string) []string {
	return r.lookup(ctx, "old_connection_number", querybuilder.OldConnectionNumber(consumerCode))
}

// LandArea returns the plot sizes of the property behind a water connection.
func (r *PaymentRepository) LandArea(ctx context.Context, consumerCode string) []string {
	return r.lookup(ctx, "land_area", querybuilder.LandArea(consumerCode))
}

// UsageCategory returns the usage categories of the property behind a water connection.
func (r *PaymentRepository) UsageCategory(ctx context.Context, consumerCode string) []string {
	return r.lookup(ctx, "usage_category", querybuilder.UsageCategory(consumerCode))
}

// PropertyDetail returns the old connection number, land area and usage
// category of a water connection, in that order. Values that are not found
// are left out.
func (r *PaymentRepository) PropertyDetail(ctx context.Context, consumerCode string) []string {
	detail := make([]string, 0, 3)
	for _, values := range [][]string{
		r.OldConnectionNumber(ctx, consumerCode),
		r.LandArea(ctx, consumerCode),
		r.UsageCategory(ctx, consumerCode),
	} {
		if v := first(values); v != "" {
			detail = append(detail, v)
		}
	}
	return detail
}

// UsageCategoryByApplicationNumber returns the property usage categories for
// a water or sewerage connection application.
func (r *PaymentRepository) UsageCategoryByApplicationNumber(ctx context.Context, applicationNumber string) []string {
	return r.lookup(ctx, "usage_category_by_application", querybuilder.UsageCategoryByApplicationNumber(applicationNumber))
}

// AddressByApplicationNumber returns the property addresses for a water or
// sewerage connection application.
func (r *PaymentRepository) AddressByApplicationNumber(ctx context.Context, applicationNumber string) []string {
	return r.lookup(ctx, "address_by_application", querybuilder.AddressByApplicationNumber(applicationNumber))
}

// ConsumerCodeByReceiptNumber returns the consumer codes of the bills paid under a receipt.
func (r *PaymentRepository) ConsumerCodeByReceiptNumber(ctx context.Context, receiptNumber string) []string {
	return r.lookup(ctx, "consumer_code_by_receipt", querybuilder.ConsumerCodeByReceiptNumber(receiptNumber))
}

func (r *PaymentRepository) lookup(ctx context.Context, name string, query querybuilder.Query) []string {
	r.logQuery(query)

	rows, err := r.db.Query(ctx, query.SQL, query.Args)
	if err == nil {
		var values []*string
		values, err = pgx.CollectRows(rows, pgx.RowTo[*string])
		if err == nil {
			out := make([]string, 0, len(values))
			for _, v := range values {
				out = append(out, deref(v))
			}
			return out
		}
	}

	r.log.Warn().Err(err).Stringer("sql_error", sqlerr.ErrCode(err)).Str("lookup", name).Msg("lookup failed")
	return []string{}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
