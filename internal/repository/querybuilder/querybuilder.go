// Package querybuilder translates search criteria and domain entities
// into SQL text plus pgx named arguments.
//
// Every function is pure: it returns a fresh Query per call and binds
// all variable input as a named argument. SQL text only ever contains
// fixed identifiers chosen by this package.
package querybuilder

import (
	"slices"
	"strings"
	"time"

	"github.com/erlove000/business-services/internal/model"
	"github.com/jackc/pgx/v5"
)

// Query is a statement and its named arguments, ready for pgx.
type Query struct {
	SQL  string
	Args pgx.NamedArgs
}

const paymentJoins = " FROM payment py" +
	" INNER JOIN payment_detail pyd ON pyd.paymentid = py.id" +
	" INNER JOIN bill bill ON bill.id = pyd.billid" +
	" INNER JOIN bill_detail bd ON bd.billid = bill.id" +
	" INNER JOIN bill_account_detail bacdt ON bacdt.billdetailid = bd.id"

// paginate keeps payments whose dense rank by id falls in (offset, offset+limit].
//
// Rank is keyed on py_id so a page always holds whole payments, however
// many joined rows each one spans.
func paginate(base string, args pgx.NamedArgs, offset, limit int) string {
	args["offset"] = offset
	args["limit"] = offset + limit

	return "SELECT * FROM" +
		" (SELECT *, DENSE_RANK() OVER (ORDER BY py_id) offset_ FROM (" + base + ") result) result_offset" +
		" WHERE offset_ > @offset AND offset_ <= @limit"
}

// Search builds the joined payment search.
//
// The projection carries payment and payment detail columns; bills are
// loaded separately with Bills. Results are ordered by transaction date,
// newest first, inside the page.
func Search(criteria model.SearchCriteria) Query {
	args := pgx.NamedArgs{}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(project("py", "py_", paymentColumns))
	sb.WriteString(", ")
	sb.WriteString(project("pyd", "pyd_", paymentDetailColumns))
	sb.WriteString(paymentJoins)

	addWhereClause(&sb, args, criteria)
	sb.WriteString(" ORDER BY py.transactiondate DESC")

	return Query{
		SQL:  paginate(sb.String(), args, criteria.Offset, criteria.Limit),
		Args: args,
	}
}

// PaymentIDs builds the id-only query for the same filters as Search.
//
// It returns the page of distinct payment ids in ascending id order, so the
// joined search can then be restricted to a known, non-empty id set.
func PaymentIDs(criteria model.SearchCriteria) Query {
	args := pgx.NamedArgs{}

	var sb strings.Builder
	sb.WriteString("SELECT DISTINCT py.id AS py_id")
	sb.WriteString(paymentJoins)
	addWhereClause(&sb, args, criteria)

	return Query{
		SQL:  "SELECT py_id FROM (" + paginate(sb.String(), args, criteria.Offset, criteria.Limit) + ") ids ORDER BY py_id",
		Args: args,
	}
}

// SearchByIDs builds the joined search restricted to ids, returning all of them.
func SearchByIDs(ids []string) Query {
	return Search(model.SearchCriteria{IDs: ids, Limit: len(ids)})
}

// whereBuilder writes WHERE before the first predicate and AND before the rest.
type whereBuilder struct {
	sb      *strings.Builder
	applied bool
}

func (w *whereBuilder) add(predicate string) {
	if w.applied {
		w.sb.WriteString(" AND ")
	} else {
		w.sb.WriteString(" WHERE ")
		w.applied = true
	}
	w.sb.WriteString(predicate)
}

func addWhereClause(sb *strings.Builder, args pgx.NamedArgs, criteria model.SearchCriteria) {
	w := &whereBuilder{sb: sb}

	if strings.TrimSpace(criteria.TenantID) != "" {
		if isSubTenant(criteria.TenantID) {
			w.add("py.tenantid = @tenantid")
			args["tenantid"] = criteria.TenantID
		} else {
			w.add("py.tenantid LIKE @tenantid")
			args["tenantid"] = likeEscaper.Replace(criteria.TenantID) + "%"
		}
	}

	if len(criteria.IDs) > 0 {
		w.add("py.id = ANY(@ids)")
		args["ids"] = criteria.IDs
	}

	if len(criteria.ReceiptNumbers) > 0 {
		w.add("pyd.receiptnumber = ANY(@receiptnumbers)")
		args["receiptnumbers"] = criteria.ReceiptNumbers
	}

	if len(criteria.Status) > 0 {
		w.add("UPPER(py.paymentstatus) = ANY(@status)")
		args["status"] = upperSet(criteria.Status)
	}

	if len(criteria.InstrumentStatus) > 0 {
		w.add("UPPER(py.instrumentstatus) = ANY(@instrumentstatus)")
		args["instrumentstatus"] = upperSet(criteria.InstrumentStatus)
	}

	if len(criteria.PaymentModes) > 0 {
		w.add("UPPER(py.paymentmode) = ANY(@paymentmode)")
		args["paymentmode"] = upperSet(criteria.PaymentModes)
	}

	if strings.TrimSpace(criteria.MobileNumber) != "" {
		w.add("py.mobilenumber = @mobilenumber")
		args["mobilenumber"] = criteria.MobileNumber
	}

	if strings.TrimSpace(criteria.TransactionNumber) != "" {
		w.add("py.transactionnumber = @transactionnumber")
		args["transactionnumber"] = criteria.TransactionNumber
	}

	if criteria.FromDate != nil {
		w.add("py.transactiondate >= @fromdate")
		args["fromdate"] = *criteria.FromDate
	}

	if criteria.ToDate != nil {
		w.add("py.transactiondate <= @todate")
		args["todate"] = EndOfDay(*criteria.ToDate)
	}

	if len(criteria.PayerIDs) > 0 {
		w.add("py.payerid = ANY(@payerid)")
		args["payerid"] = criteria.PayerIDs
	}

	if len(criteria.BusinessServices) > 0 {
		w.add("pyd.businessservice = ANY(@businessservice)")
		args["businessservice"] = criteria.BusinessServices
	}

	if len(criteria.ConsumerCodes) > 0 {
		w.add("bill.consumercode = ANY(@consumercodes)")
		args["consumercodes"] = criteria.ConsumerCodes
	}

	if len(criteria.BillIDs) > 0 {
		w.add("pyd.billid = ANY(@billid)")
		args["billid"] = criteria.BillIDs
	}
}

// likeEscaper makes a value match itself literally as a LIKE pattern, using
// the default backslash escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// isSubTenant reports whether tenantID names a city under a state, e.g. "pb.amritsar".
//
// Empty trailing segments do not count, so "pb." is still a state tenant.
func isSubTenant(tenantID string) bool {
	parts := strings.Split(tenantID, ".")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return len(parts) > 1
}

// EndOfDay returns the upper transaction date bound for a toDate of epochMillis:
// the same instant one calendar day later, in UTC.
func EndOfDay(epochMillis int64) int64 {
	return time.UnixMilli(epochMillis).UTC().AddDate(0, 0, 1).UnixMilli()
}

// upperSet upper-cases values, drops duplicates and sorts them.
func upperSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToUpper(v))
	}
	slices.Sort(out)
	return slices.Compact(out)
}
