package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/erlove000/business-services/internal/errs"
	"github.com/erlove000/business-services/internal/model"
	"github.com/erlove000/business-services/internal/repository/querybuilder"
	"github.com/erlove000/business-services/internal/sqlerr"
	"github.com/erlove000/business-services/internal/validation"
	"github.com/jackc/pgx/v5"
)

// Save inserts a payment with its details, bills, bill details and bill
// account details in one transaction.
//
// Rows are written parent first, one batch per table. A bill referenced by
// several details is written once.
func (r *PaymentRepository) Save(ctx context.Context, p *model.Payment) error {
	if err := validation.ValidatePayment(p); err != nil {
		return err
	}

	var (
		details            []querybuilder.Query
		bills              []querybuilder.Query
		billDetails        []querybuilder.Query
		billAccountDetails []querybuilder.Query
	)

	for _, bill := range uniqueBills([]model.Payment{*p}) {
		bills = append(bills, querybuilder.InsertBill(bill))
		for i := range bill.BillDetails {
			bd := &bill.BillDetails[i]
			billDetails = append(billDetails, querybuilder.InsertBillDetail(bill.ID, bd))
			for j := range bd.BillAccountDetails {
				billAccountDetails = append(billAccountDetails, querybuilder.InsertBillAccountDetail(bd.ID, &bd.BillAccountDetails[j]))
			}
		}
	}
	for i := range p.PaymentDetails {
		details = append(details, querybuilder.InsertPaymentDetail(p.ID, &p.PaymentDetails[i]))
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := r.exec(ctx, tx, querybuilder.InsertPayment(p)); err != nil {
			return err
		}
		for _, batch := range [][]querybuilder.Query{details, bills, billDetails, billAccountDetails} {
			if err := r.execBatch(ctx, tx, batch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error().Err(err).Stringer("sql_error", sqlerr.ErrCode(err)).Str("payment_id", p.ID).Msg("failed to persist payment")
		return sqlerr.HandleError(err, errs.NewCreationFailedError)
	}

	r.log.Info().
		Str("payment_id", p.ID).
		Int("payment_details", len(details)).
		Int("bills", len(bills)).
		Msg("payment persisted")
	return nil
}

// UpdateStatus persists status changes of payments, their details and bills,
// as on cancellation or dishonour.
//
// Every row is copied to its audit table before it is updated, and the
// whole set is applied in one transaction.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, payments []model.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	if err := requireBills(payments); err != nil {
		return err
	}

	var copies, updates [3][]querybuilder.Query
	for i := range payments {
		p := &payments[i]
		copies[0] = append(copies[0], querybuilder.CopyPayment(p.ID))
		updates[0] = append(updates[0], querybuilder.PaymentStatusUpdate(p))
		for j := range p.PaymentDetails {
			d := &p.PaymentDetails[j]
			copies[1] = append(copies[1], querybuilder.CopyPaymentDetail(d.ID))
			updates[1] = append(updates[1], querybuilder.PaymentDetailStatusUpdate(d))
		}
	}
	for _, bill := range uniqueBills(payments) {
		copies[2] = append(copies[2], querybuilder.CopyBill(bill.ID))
		updates[2] = append(updates[2], querybuilder.BillStatusUpdate(bill))
	}

	err := r.inTx(ctx, append(copies[:], updates[:]...))
	if err != nil {
		r.log.Error().Err(err).Stringer("sql_error", sqlerr.ErrCode(err)).Int("payments", len(payments)).Msg("failed to update payment status")
		return sqlerr.HandleError(err, errs.NewCancellationFailedError)
	}
	return nil
}

// UpdatePayment persists corrections to payments, their details, bills and
// bill details, auditing every row first, in one transaction.
func (r *PaymentRepository) UpdatePayment(ctx context.Context, payments []model.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	if err := requireBills(payments); err != nil {
		return err
	}

	var copies, updates [4][]querybuilder.Query
	for i := range payments {
		p := &payments[i]
		copies[0] = append(copies[0], querybuilder.CopyPayment(p.ID))
		updates[0] = append(updates[0], querybuilder.PaymentUpdate(p))
		for j := range p.PaymentDetails {
			d := &p.PaymentDetails[j]
			copies[1] = append(copies[1], querybuilder.CopyPaymentDetail(d.ID))
			updates[1] = append(updates[1], querybuilder.PaymentDetailUpdate(d))
		}
	}
	for _, bill := range uniqueBills(payments) {
		copies[2] = append(copies[2], querybuilder.CopyBill(bill.ID))
		updates[2] = append(updates[2], querybuilder.BillUpdate(bill))
		for k := range bill.BillDetails {
			bd := &bill.BillDetails[k]
			copies[3] = append(copies[3], querybuilder.CopyBillDetail(bd.ID))
			updates[3] = append(updates[3], querybuilder.BillDetailUpdate(bd))
		}
	}

	err := r.inTx(ctx, append(copies[:], updates[:]...))
	if err != nil {
		r.log.Error().Err(err).Stringer("sql_error", sqlerr.ErrCode(err)).Int("payments", len(payments)).Msg("failed to update payments")
		return sqlerr.HandleError(err, errs.NewUpdateFailedError)
	}
	return nil
}

// UpdateFileReference sets the receipt document reference of each payment,
// keyed by payment id, as one batch.
func (r *PaymentRepository) UpdateFileReference(ctx context.Context, refs map[string]string) error {
	if len(refs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	queries := make([]querybuilder.Query, 0, len(ids))
	for _, id := range ids {
		queries = append(queries, querybuilder.UpdateFileStoreID(id, refs[id]))
	}

	if err := r.execBatch(ctx, r.db, queries); err != nil {
		r.log.Error().Err(err).Stringer("sql_error", sqlerr.ErrCode(err)).Int("payments", len(ids)).Msg("failed to update file store ids")
		return sqlerr.HandleError(err, errs.NewFileStoreUpdateError)
	}
	return nil
}

// ClearFileReference removes the receipt document reference of a payment.
func (r *PaymentRepository) ClearFileReference(ctx context.Context, p *model.Payment) error {
	if err := r.exec(ctx, r.db, querybuilder.ClearFileStoreID(p.ID)); err != nil {
		r.log.Error().Err(err).Stringer("sql_error", sqlerr.ErrCode(err)).Str("payment_id", p.ID).Msg("failed to clear file store id")
		return sqlerr.HandleError(err, errs.NewFileStoreUpdateError)
	}
	return nil
}

// inTx runs each group as one batch, in order, inside a transaction.
func (r *PaymentRepository) inTx(ctx context.Context, groups [][]querybuilder.Query) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, group := range groups {
			if err := r.execBatch(ctx, tx, group); err != nil {
				return err
			}
		}
		return nil
	})
}

// uniqueBills returns the bills attached to the payments' details, first
// occurrence of each id wins.
func uniqueBills(payments []model.Payment) []*model.Bill {
	seen := make(map[string]struct{})
	var bills []*model.Bill
	for i := range payments {
		for j := range payments[i].PaymentDetails {
			bill := payments[i].PaymentDetails[j].Bill
			if bill == nil {
				continue
			}
			if _, ok := seen[bill.ID]; ok {
				continue
			}
			seen[bill.ID] = struct{}{}
			bills = append(bills, bill)
		}
	}
	return bills
}

func requireBills(payments []model.Payment) error {
	var fieldErrors []errs.FieldError
	for i := range payments {
		for j, d := range payments[i].PaymentDetails {
			if d.Bill == nil {
				fieldErrors = append(fieldErrors, errs.FieldError{
					Field: fmt.Sprintf("[%d].paymentDetails[%d].bill", i, j),
					Error: "is required",
				})
			}
		}
	}
	if len(fieldErrors) > 0 {
		return errs.NewValidationError("Validation failed", fieldErrors)
	}
	return nil
}
