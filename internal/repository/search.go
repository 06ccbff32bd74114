package repository

import (
	"cmp"
	"context"
	"slices"

	"github.com/erlove000/business-services/internal/errs"
	"github.com/erlove000/business-services/internal/model"
	"github.com/erlove000/business-services/internal/repository/querybuilder"
	"github.com/erlove000/business-services/internal/sqlerr"
	"github.com/erlove000/business-services/internal/validation"
	"github.com/jackc/pgx/v5"
)

// Search finds payments matching criteria.
//
// It pages over distinct payment ids first and then loads the full graph of
// those ids, so a page always holds whole payments. Results are sorted by
// transaction date, newest first.
func (r *PaymentRepository) Search(ctx context.Context, criteria model.SearchCriteria) ([]model.Payment, error) {
	criteria, err := r.prepare(criteria)
	if err != nil {
		return nil, err
	}

	ids, err := r.paymentIDs(ctx, criteria)
	if err != nil {
		return nil, r.searchFailed(err)
	}
	if len(ids) == 0 {
		return []model.Payment{}, nil
	}

	payments, err := r.load(ctx, querybuilder.SearchByIDs(ids))
	if err != nil {
		return nil, r.searchFailed(err)
	}
	return payments, nil
}

// SearchPlain finds payments with a single joined query, paginated the same
// way as Search.
func (r *PaymentRepository) SearchPlain(ctx context.Context, criteria model.SearchCriteria) ([]model.Payment, error) {
	criteria, err := r.prepare(criteria)
	if err != nil {
		return nil, err
	}

	payments, err := r.load(ctx, querybuilder.Search(criteria))
	if err != nil {
		return nil, r.searchFailed(err)
	}
	return payments, nil
}

// prepare applies the default page size and validates criteria.
func (r *PaymentRepository) prepare(criteria model.SearchCriteria) (model.SearchCriteria, error) {
	if criteria.Limit == 0 {
		criteria.Limit = r.limits.DefaultLimit
	}
	if err := validation.ValidateSearchCriteria(&criteria, r.limits.MaxLimit); err != nil {
		return criteria, err
	}
	return criteria, nil
}

func (r *PaymentRepository) paymentIDs(ctx context.Context, criteria model.SearchCriteria) ([]string, error) {
	query := querybuilder.PaymentIDs(criteria)
	r.logQuery(query)

	rows, err := r.db.Query(ctx, query.SQL, query.Args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// load runs a payment query and attaches bills to every detail.
func (r *PaymentRepository) load(ctx context.Context, query querybuilder.Query) ([]model.Payment, error) {
	r.logQuery(query)

	rows, err := r.db.Query(ctx, query.SQL, query.Args)
	if err != nil {
		return nil, err
	}
	paymentRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[paymentRow])
	if err != nil {
		return nil, err
	}

	payments := foldPayments(paymentRows)
	if len(payments) == 0 {
		return payments, nil
	}

	var billIDs []string
	seen := make(map[string]struct{})
	for _, p := range payments {
		for _, id := range p.BillIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			billIDs = append(billIDs, id)
		}
	}

	bills, err := r.bills(ctx, billIDs)
	if err != nil {
		return nil, err
	}

	for i := range payments {
		for j := range payments[i].PaymentDetails {
			d := &payments[i].PaymentDetails[j]
			if bill, ok := bills[d.BillID]; ok {
				b := *bill
				d.Bill = &b
			}
		}
	}

	slices.SortStableFunc(payments, func(a, b model.Payment) int {
		if c := cmp.Compare(b.TransactionDate, a.TransactionDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	r.log.Debug().Int("payments", len(payments)).Int("bills", len(bills)).Msg("payments loaded")
	return payments, nil
}

func (r *PaymentRepository) bills(ctx context.Context, ids []string) (map[string]*model.Bill, error) {
	query := querybuilder.Bills(ids)
	r.logQuery(query)

	rows, err := r.db.Query(ctx, query.SQL, query.Args)
	if err != nil {
		return nil, err
	}
	billRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[billRow])
	if err != nil {
		return nil, err
	}
	return foldBills(billRows), nil
}

func (r *PaymentRepository) searchFailed(err error) error {
	r.log.Error().Err(err).Stringer("sql_error", sqlerr.ErrCode(err)).Msg("payment search failed")
	return sqlerr.HandleError(err, errs.NewSearchFailedError)
}
