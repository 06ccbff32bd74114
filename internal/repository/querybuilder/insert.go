package querybuilder

import (
	"strings"

	"github.com/erlove000/business-services/internal/model"
	"github.com/jackc/pgx/v5"
)

func insertSQL(table, columns string) string {
	return "INSERT INTO " + table + " (" + columns + ") VALUES (" + placeholders(columns) + ")"
}

// InsertPayment builds the payment insert.
func InsertPayment(p *model.Payment) Query {
	audit := auditOf(p.AuditDetails)

	return Query{
		SQL: insertSQL("payment", paymentColumns),
		Args: pgx.NamedArgs{
			"id":                p.ID,
			"tenantid":          p.TenantID,
			"totaldue":          p.TotalDue,
			"totalamountpaid":   p.TotalAmountPaid,
			"transactionnumber": p.TransactionNumber,
			"transactiondate":   p.TransactionDate,
			"paymentmode":       string(p.PaymentMode),
			"instrumentdate":    nullInt(p.InstrumentDate),
			"instrumentnumber":  nullString(p.InstrumentNumber),
			"instrumentstatus":  string(p.InstrumentStatus),
			"ifsccode":          nullString(p.IfscCode),
			"additionaldetails": jsonb(p.AdditionalDetails),
			"paidby":            nullString(p.PaidBy),
			"mobilenumber":      nullString(p.MobileNumber),
			"payername":         nullString(p.PayerName),
			"payeraddress":      nullString(p.PayerAddress),
			"payeremail":        nullString(p.PayerEmail),
			"payerid":           nullString(p.PayerID),
			"paymentstatus":     string(p.PaymentStatus),
			"filestoreid":       nullString(p.FileStoreID),
			"createdby":         audit.CreatedBy,
			"createdtime":       audit.CreatedTime,
			"lastmodifiedby":    nullString(audit.LastModifiedBy),
			"lastmodifiedtime":  nullInt(audit.LastModifiedTime),
		},
	}
}

// InsertPaymentDetail builds the insert for a detail owned by paymentID.
func InsertPaymentDetail(paymentID string, d *model.PaymentDetail) Query {
	audit := auditOf(d.AuditDetails)

	return Query{
		SQL: insertSQL("payment_detail", paymentDetailColumns),
		Args: pgx.NamedArgs{
			"id":                  d.ID,
			"tenantid":            d.TenantID,
			"paymentid":           paymentID,
			"due":                 d.TotalDue,
			"amountpaid":          d.TotalAmountPaid,
			"receiptnumber":       d.ReceiptNumber,
			"receiptdate":         d.ReceiptDate,
			"receipttype":         d.ReceiptType,
			"businessservice":     d.BusinessService,
			"billid":              d.BillID,
			"manualreceiptnumber": nullString(d.ManualReceiptNumber),
			"manualreceiptdate":   nullInt(d.ManualReceiptDate),
			"additionaldetails":   jsonb(d.AdditionalDetails),
			"createdby":           audit.CreatedBy,
			"createdtime":         audit.CreatedTime,
			"lastmodifiedby":      nullString(audit.LastModifiedBy),
			"lastmodifiedtime":    nullInt(audit.LastModifiedTime),
		},
	}
}

// InsertBill builds the bill insert. Disallowed collection modes are stored comma-joined.
func InsertBill(b *model.Bill) Query {
	audit := auditOf(b.AuditDetails)

	return Query{
		SQL: insertSQL("bill", billColumns),
		Args: pgx.NamedArgs{
			"id":                        b.ID,
			"status":                    string(b.Status),
			"iscancelled":               b.IsCancelled,
			"additionaldetails":         jsonb(b.AdditionalDetails),
			"tenantid":                  b.TenantID,
			"collectionmodesnotallowed": nullString(strings.Join(b.CollectionModesNotAllowed, ",")),
			"partpaymentallowed":        b.PartPaymentAllowed,
			"isadvanceallowed":          b.IsAdvanceAllowed,
			"minimumamounttobepaid":     b.MinimumAmountToBePaid,
			"businessservice":           b.BusinessService,
			"totalamount":               b.TotalAmount,
			"consumercode":              b.ConsumerCode,
			"billnumber":                b.BillNumber,
			"billdate":                  b.BillDate,
			"reasonforcancellation":     nullString(b.ReasonForCancellation),
			"createdby":                 audit.CreatedBy,
			"createdtime":               audit.CreatedTime,
			"lastmodifiedby":            nullString(audit.LastModifiedBy),
			"lastmodifiedtime":          nullInt(audit.LastModifiedTime),
		},
	}
}

// InsertBillDetail builds the insert for a line item owned by billID.
func InsertBillDetail(billID string, d *model.BillDetail) Query {
	audit := auditOf(d.AuditDetails)

	return Query{
		SQL: insertSQL("bill_detail", billDetailColumns),
		Args: pgx.NamedArgs{
			"id":                      d.ID,
			"tenantid":                d.TenantID,
			"demandid":                nullString(d.DemandID),
			"billid":                  billID,
			"amount":                  d.Amount,
			"amountpaid":              d.AmountPaid,
			"fromperiod":              nullInt(d.FromPeriod),
			"toperiod":                nullInt(d.ToPeriod),
			"additionaldetails":       jsonb(d.AdditionalDetails),
			"channel":                 nullString(d.Channel),
			"voucherheader":           nullString(d.VoucherHeader),
			"boundary":                nullString(d.Boundary),
			"manualreceiptnumber":     nullString(d.ManualReceiptNumber),
			"manualreceiptdate":       nullInt(d.ManualReceiptDate),
			"collectiontype":          nullString(d.CollectionType),
			"billdescription":         nullString(d.BillDescription),
			"expirydate":              nullInt(d.ExpiryDate),
			"displaymessage":          nullString(d.DisplayMessage),
			"callbackforapportioning": d.CallBackForApportioning,
			"cancellationremarks":     nullString(d.CancellationRemarks),
			"createdby":               nullString(audit.CreatedBy),
			"createdtime":             nullInt(audit.CreatedTime),
			"lastmodifiedby":          nullString(audit.LastModifiedBy),
			"lastmodifiedtime":        nullInt(audit.LastModifiedTime),
		},
	}
}

// InsertBillAccountDetail builds the insert for a tax-head split owned by billDetailID.
func InsertBillAccountDetail(billDetailID string, a *model.BillAccountDetail) Query {
	return Query{
		SQL: insertSQL("bill_account_detail", billAccountDetailColumns),
		Args: pgx.NamedArgs{
			"id":                a.ID,
			"tenantid":          a.TenantID,
			"billdetailid":      billDetailID,
			"demanddetailid":    nullString(a.DemandDetailID),
			"order":             a.Order,
			"amount":            a.Amount,
			"adjustedamount":    a.AdjustedAmount,
			"isactualdemand":    a.IsActualDemand,
			"taxheadcode":       nullString(a.TaxHeadCode),
			"additionaldetails": jsonb(a.AdditionalDetails),
		},
	}
}

// jsonb binds a document for a jsonb column. Absent documents bind SQL NULL,
// never the JSON literal null.
func jsonb(a model.AdditionalDetails) any {
	if a.IsNull() {
		return nil
	}
	return string(a)
}

// nullString binds "" as SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullInt binds 0 as SQL NULL, for optional epoch-millisecond columns.
func nullInt(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

func auditOf(a *model.AuditDetails) model.AuditDetails {
	if a == nil {
		return model.AuditDetails{}
	}
	return *a
}
