package querybuilder

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/erlove000/business-services/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// whereClause returns the text between WHERE and ORDER BY of the base query.
func whereClause(t *testing.T, sql string) string {
	t.Helper()

	start := strings.Index(sql, " WHERE ")
	end := strings.Index(sql, " ORDER BY py.transactiondate DESC")
	require.GreaterOrEqual(t, start, 0, sql)
	require.Greater(t, end, start, sql)
	return sql[start+len(" WHERE ") : end]
}

func TestSearchTenantEquality(t *testing.T) {
	q := Search(model.SearchCriteria{TenantID: "pb.amritsar", Limit: 10})

	assert.Equal(t, "py.tenantid = @tenantid", whereClause(t, q.SQL))
	assert.Equal(t, "pb.amritsar", q.Args["tenantid"])
}

func TestSearchTenantPrefix(t *testing.T) {
	q := Search(model.SearchCriteria{TenantID: "pb", Limit: 10})

	assert.Equal(t, "py.tenantid LIKE @tenantid", whereClause(t, q.SQL))
	assert.Equal(t, "pb%", q.Args["tenantid"])
}

func TestSearchTenantPrefixEscapesWildcards(t *testing.T) {
	q := Search(model.SearchCriteria{TenantID: `p_b%\`, Limit: 10})

	assert.Equal(t, `p\_b\%\\%`, q.Args["tenantid"])
}

func TestIsSubTenant(t *testing.T) {
	assert.True(t, isSubTenant("pb.amritsar"))
	assert.True(t, isSubTenant(".pb"))
	assert.False(t, isSubTenant("pb"))
	assert.False(t, isSubTenant("pb."))
	assert.False(t, isSubTenant("."))
}

func TestSearchWithoutCriteriaHasNoWhere(t *testing.T) {
	q := Search(model.SearchCriteria{Limit: 5})

	assert.NotContains(t, q.SQL, " WHERE py.")
	assert.Contains(t, q.SQL, " ORDER BY py.transactiondate DESC")
	assert.Equal(t, 0, q.Args["offset"])
	assert.Equal(t, 5, q.Args["limit"])
}

func TestSearchPredicateOrder(t *testing.T) {
	from := int64(1700000000000)
	to := int64(1700600000000)

	q := Search(model.SearchCriteria{
		TenantID:          "pb.amritsar",
		IDs:               []string{"p1", "p2"},
		ReceiptNumbers:    []string{"R1"},
		Status:            []string{"new", "Cancelled", "NEW"},
		InstrumentStatus:  []string{"approved"},
		PaymentModes:      []string{"cash", "online"},
		MobileNumber:      "9999999999",
		TransactionNumber: "TXN-1",
		FromDate:          &from,
		ToDate:            &to,
		PayerIDs:          []string{"payer-1"},
		BusinessServices:  []string{"PT", "WS"},
		ConsumerCodes:     []string{"CC-1"},
		BillIDs:           []string{"b1"},
		Offset:            20,
		Limit:             10,
	})

	expected := []string{
		"py.tenantid = @tenantid",
		"py.id = ANY(@ids)",
		"pyd.receiptnumber = ANY(@receiptnumbers)",
		"UPPER(py.paymentstatus) = ANY(@status)",
		"UPPER(py.instrumentstatus) = ANY(@instrumentstatus)",
		"UPPER(py.paymentmode) = ANY(@paymentmode)",
		"py.mobilenumber = @mobilenumber",
		"py.transactionnumber = @transactionnumber",
		"py.transactiondate >= @fromdate",
		"py.transactiondate <= @todate",
		"py.payerid = ANY(@payerid)",
		"pyd.businessservice = ANY(@businessservice)",
		"bill.consumercode = ANY(@consumercodes)",
		"pyd.billid = ANY(@billid)",
	}
	assert.Equal(t, strings.Join(expected, " AND "), whereClause(t, q.SQL))
	assert.Equal(t, 1, strings.Count(q.SQL, " WHERE py."))

	assert.Equal(t, []string{"CANCELLED", "NEW"}, q.Args["status"])
	assert.Equal(t, []string{"APPROVED"}, q.Args["instrumentstatus"])
	assert.Equal(t, []string{"CASH", "ONLINE"}, q.Args["paymentmode"])
	assert.Equal(t, from, q.Args["fromdate"])
	assert.Equal(t, to+24*int64(time.Hour/time.Millisecond), q.Args["todate"])
	assert.Equal(t, 20, q.Args["offset"])
	assert.Equal(t, 30, q.Args["limit"])
}

func TestSearchSinglePredicateUsesWhere(t *testing.T) {
	q := Search(model.SearchCriteria{MobileNumber: "9999999999", Limit: 1})

	assert.Equal(t, "py.mobilenumber = @mobilenumber", whereClause(t, q.SQL))
	assert.NotContains(t, q.SQL, "AND py.mobilenumber")
}

func TestSearchPaginationWrapper(t *testing.T) {
	q := Search(model.SearchCriteria{Offset: 0, Limit: 10})

	assert.True(t, strings.HasPrefix(q.SQL,
		"SELECT * FROM (SELECT *, DENSE_RANK() OVER (ORDER BY py_id) offset_ FROM (SELECT "), q.SQL)
	assert.True(t, strings.HasSuffix(q.SQL,
		" ORDER BY py.transactiondate DESC) result) result_offset WHERE offset_ > @offset AND offset_ <= @limit"), q.SQL)
}

func TestEndOfDay(t *testing.T) {
	day := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, day.AddDate(0, 0, 1).UnixMilli(), EndOfDay(day.UnixMilli()))

	// Month rollover.
	last := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), EndOfDay(last.UnixMilli()))
}

func TestPaymentIDs(t *testing.T) {
	q := PaymentIDs(model.SearchCriteria{TenantID: "pb", BusinessServices: []string{"PT"}, Offset: 0, Limit: 10})

	assert.True(t, strings.HasPrefix(q.SQL, "SELECT py_id FROM (SELECT * FROM (SELECT *, DENSE_RANK() OVER (ORDER BY py_id) offset_ FROM (SELECT DISTINCT py.id AS py_id FROM payment py"), q.SQL)
	assert.Contains(t, q.SQL, " WHERE py.tenantid LIKE @tenantid AND pyd.businessservice = ANY(@businessservice)")
	assert.True(t, strings.HasSuffix(q.SQL, ") ids ORDER BY py_id"), q.SQL)
	assert.NotContains(t, q.SQL, "transactiondate DESC")
	assert.Equal(t, 10, q.Args["limit"])
}

func TestSearchByIDs(t *testing.T) {
	ids := []string{"p1", "p2", "p3"}
	q := SearchByIDs(ids)

	assert.Equal(t, "py.id = ANY(@ids)", whereClause(t, q.SQL))
	assert.Equal(t, ids, q.Args["ids"])
	assert.Equal(t, 0, q.Args["offset"])
	assert.Equal(t, 3, q.Args["limit"])
}

// namedParams lists the @name placeholders of a statement.
var namedParamRegex = regexp.MustCompile(`@([a-z_]+)`)

func namedParams(sql string) []string {
	var out []string
	for _, m := range namedParamRegex.FindAllStringSubmatch(sql, -1) {
		out = append(out, m[1])
	}
	return out
}

// requireArgsCoverSQL fails when a placeholder has no argument, which pgx would bind as NULL.
func requireArgsCoverSQL(t *testing.T, q Query) {
	t.Helper()

	for _, name := range namedParams(q.SQL) {
		_, ok := q.Args[name]
		assert.True(t, ok, "missing argument %q for %s", name, q.SQL)
	}
}

func samplePayment() *model.Payment {
	audit := &model.AuditDetails{CreatedBy: "u1", CreatedTime: 100, LastModifiedBy: "u2", LastModifiedTime: 200}

	return &model.Payment{
		ID:                "pay-1",
		TenantID:          "pb.amritsar",
		TotalDue:          decimal.RequireFromString("150.50"),
		TotalAmountPaid:   decimal.RequireFromString("150.50"),
		TransactionNumber: "TXN-1",
		TransactionDate:   1700000000000,
		PaymentMode:       model.PaymentModeCash,
		InstrumentStatus:  model.InstrumentStatusApproved,
		PaymentStatus:     model.PaymentStatusNew,
		PayerName:         "Asha",
		AuditDetails:      audit,
		AdditionalDetails: model.AdditionalDetails(`{"note":"counter 3"}`),
		PaymentDetails: []model.PaymentDetail{{
			ID:              "pd-1",
			TenantID:        "pb.amritsar",
			ReceiptNumber:   "RCPT-1",
			ReceiptType:     "BILLBASED",
			BusinessService: "PT",
			BillID:          "bill-1",
			AuditDetails:    audit,
			Bill: &model.Bill{
				ID:                        "bill-1",
				Status:                    model.BillStatusActive,
				TenantID:                  "pb.amritsar",
				BusinessService:           "PT",
				ConsumerCode:              "PT-1",
				BillNumber:                "BILL-1",
				CollectionModesNotAllowed: []string{"CHEQUE", "DD"},
				AuditDetails:              audit,
				BillDetails: []model.BillDetail{{
					ID:       "bd-1",
					TenantID: "pb.amritsar",
					BillAccountDetails: []model.BillAccountDetail{{
						ID:       "bad-1",
						TenantID: "pb.amritsar",
						Order:    1,
					}},
				}},
			},
		}},
	}
}

func TestInsertStatementsBindEveryColumn(t *testing.T) {
	p := samplePayment()
	pd := &p.PaymentDetails[0]
	bill := pd.Bill
	bd := &bill.BillDetails[0]
	bad := &bd.BillAccountDetails[0]

	queries := map[string]Query{
		"payment":             InsertPayment(p),
		"payment_detail":      InsertPaymentDetail(p.ID, pd),
		"bill":                InsertBill(bill),
		"bill_detail":         InsertBillDetail(bill.ID, bd),
		"bill_account_detail": InsertBillAccountDetail(bd.ID, bad),
	}

	for table, q := range queries {
		assert.True(t, strings.HasPrefix(q.SQL, "INSERT INTO "+table+" ("), q.SQL)
		requireArgsCoverSQL(t, q)
		assert.Len(t, q.Args, len(namedParams(q.SQL)), table)
	}

	assert.Contains(t, queries["bill_account_detail"].SQL, `"order"`)
	assert.Contains(t, queries["bill_account_detail"].SQL, "@order")
}

func TestInsertParentReferences(t *testing.T) {
	p := samplePayment()
	bd := &p.PaymentDetails[0].Bill.BillDetails[0]

	assert.Equal(t, "pay-1", InsertPaymentDetail("pay-1", &p.PaymentDetails[0]).Args["paymentid"])
	assert.Equal(t, "bill-1", InsertBillDetail("bill-1", bd).Args["billid"])
	assert.Equal(t, "bd-1", InsertBillAccountDetail("bd-1", &bd.BillAccountDetails[0]).Args["billdetailid"])
}

func TestInsertValueMapping(t *testing.T) {
	p := samplePayment()

	args := InsertPayment(p).Args
	assert.Equal(t, "CASH", args["paymentmode"])
	assert.Equal(t, `{"note":"counter 3"}`, args["additionaldetails"])
	assert.Nil(t, args["instrumentdate"])
	assert.Nil(t, args["payeremail"])
	assert.Equal(t, "Asha", args["payername"])
	assert.True(t, decimal.RequireFromString("150.5").Equal(args["totalamountpaid"].(decimal.Decimal)))

	billArgs := InsertBill(p.PaymentDetails[0].Bill).Args
	assert.Equal(t, "CHEQUE,DD", billArgs["collectionmodesnotallowed"])
	assert.Nil(t, billArgs["additionaldetails"])
}

func TestJSONBNeverBindsLiteralNull(t *testing.T) {
	assert.Nil(t, jsonb(nil))
	assert.Nil(t, jsonb(model.AdditionalDetails("null")))
	assert.Equal(t, `{"a":1}`, jsonb(model.AdditionalDetails(`{"a":1}`)))
}

func TestUpdateStatementsBindEveryPlaceholder(t *testing.T) {
	p := samplePayment()
	pd := &p.PaymentDetails[0]

	for _, q := range []Query{
		PaymentStatusUpdate(p),
		PaymentDetailStatusUpdate(pd),
		BillStatusUpdate(pd.Bill),
		PaymentUpdate(p),
		PaymentDetailUpdate(pd),
		BillUpdate(pd.Bill),
		BillDetailUpdate(&pd.Bill.BillDetails[0]),
		UpdateFileStoreID(p.ID, "fs-1"),
		ClearFileStoreID(p.ID),
	} {
		requireArgsCoverSQL(t, q)
		assert.True(t, strings.HasSuffix(q.SQL, " WHERE id = @id"), q.SQL)
	}
}

func TestAuditCopy(t *testing.T) {
	q := CopyPayment("pay-1")

	assert.Equal(t, "INSERT INTO payment_audit ("+paymentColumns+") SELECT "+paymentColumns+" FROM payment WHERE id = @id", q.SQL)
	assert.Equal(t, "pay-1", q.Args["id"])

	assert.Contains(t, CopyPaymentDetail("pd-1").SQL, "INSERT INTO payment_detail_audit (")
	assert.Contains(t, CopyBill("b-1").SQL, "INSERT INTO bill_audit (")
	assert.Contains(t, CopyBillDetail("bd-1").SQL, "INSERT INTO bill_detail_audit (")
}

func TestBills(t *testing.T) {
	q := Bills([]string{"b1", "b2"})

	assert.Contains(t, q.SQL, "LEFT OUTER JOIN bill_detail bd ON b.id = bd.billid AND b.tenantid = bd.tenantid")
	assert.Contains(t, q.SQL, "LEFT OUTER JOIN bill_account_detail ad ON bd.id = ad.billdetailid AND bd.tenantid = ad.tenantid")
	assert.Contains(t, q.SQL, `ad."order" AS ad_order`)
	assert.Contains(t, q.SQL, "WHERE b.id = ANY(@ids)")
	assert.Equal(t, []string{"b1", "b2"}, q.Args["ids"])
}

func TestLookupsAreParameterized(t *testing.T) {
	hostile := "x' OR '1'='1"

	for _, q := range []Query{
		OldConnectionNumber(hostile),
		LandArea(hostile),
		UsageCategory(hostile),
		UsageCategoryByApplicationNumber(hostile),
		AddressByApplicationNumber(hostile),
		ConsumerCodeByReceiptNumber(hostile),
	} {
		assert.NotContains(t, q.SQL, hostile)
		assert.NotContains(t, q.SQL, "'")
		requireArgsCoverSQL(t, q)
	}
}

func TestConnectionTable(t *testing.T) {
	assert.Contains(t, UsageCategoryByApplicationNumber("PB_WS_AP_2024_1").SQL, "FROM eg_ws_connection a1")
	assert.Contains(t, AddressByApplicationNumber("PB_SW_AP_2024_1").SQL, "FROM eg_sw_connection a1")
}

func TestProject(t *testing.T) {
	assert.Equal(t, `ad.id AS ad_id, ad."order" AS ad_order`, project("ad", "ad_", `id, "order"`))
	assert.Equal(t, "@id, @order", placeholders(`id, "order"`))
}
