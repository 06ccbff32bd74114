package querybuilder

import (
	"github.com/erlove000/business-services/internal/model"
	"github.com/jackc/pgx/v5"
)

// auditCopySQL appends the current row of table to table_audit.
func auditCopySQL(table, columns string) string {
	return "INSERT INTO " + table + "_audit (" + columns + ") SELECT " + columns + " FROM " + table + " WHERE id = @id"
}

// CopyPayment snapshots a payment row into payment_audit.
func CopyPayment(id string) Query {
	return Query{SQL: auditCopySQL("payment", paymentColumns), Args: pgx.NamedArgs{"id": id}}
}

// CopyPaymentDetail snapshots a payment detail row into payment_detail_audit.
func CopyPaymentDetail(id string) Query {
	return Query{SQL: auditCopySQL("payment_detail", paymentDetailColumns), Args: pgx.NamedArgs{"id": id}}
}

// CopyBill snapshots a bill row into bill_audit.
func CopyBill(id string) Query {
	return Query{SQL: auditCopySQL("bill", billColumns), Args: pgx.NamedArgs{"id": id}}
}

// CopyBillDetail snapshots a bill detail row into bill_detail_audit.
func CopyBillDetail(id string) Query {
	return Query{SQL: auditCopySQL("bill_detail", billDetailColumns), Args: pgx.NamedArgs{"id": id}}
}

// Status updates, used when a receipt is cancelled or dishonoured.

// PaymentStatusUpdate sets the payment and instrument status.
func PaymentStatusUpdate(p *model.Payment) Query {
	audit := auditOf(p.AuditDetails)

	return Query{
		SQL: "UPDATE payment SET instrumentstatus = @instrumentstatus, additionaldetails = @additionaldetails," +
			" paymentstatus = @paymentstatus, lastmodifiedby = @lastmodifiedby, lastmodifiedtime = @lastmodifiedtime" +
			" WHERE id = @id",
		Args: pgx.NamedArgs{
			"id":                p.ID,
			"instrumentstatus":  string(p.InstrumentStatus),
			"paymentstatus":     string(p.PaymentStatus),
			"additionaldetails": jsonb(p.AdditionalDetails),
			"lastmodifiedby":    nullString(audit.LastModifiedBy),
			"lastmodifiedtime":  nullInt(audit.LastModifiedTime),
		},
	}
}

// PaymentDetailStatusUpdate refreshes a detail's additional details and modification stamp.
func PaymentDetailStatusUpdate(d *model.PaymentDetail) Query {
	audit := auditOf(d.AuditDetails)

	return Query{
		SQL: "UPDATE payment_detail SET additionaldetails = @additionaldetails," +
			" lastmodifiedby = @lastmodifiedby, lastmodifiedtime = @lastmodifiedtime" +
			" WHERE id = @id",
		Args: pgx.NamedArgs{
			"id":                d.ID,
			"additionaldetails": jsonb(d.AdditionalDetails),
			"lastmodifiedby":    nullString(audit.LastModifiedBy),
			"lastmodifiedtime":  nullInt(audit.LastModifiedTime),
		},
	}
}

// BillStatusUpdate sets a bill's status, cancellation flag and reason.
func BillStatusUpdate(b *model.Bill) Query {
	audit := auditOf(b.AuditDetails)

	return Query{
		SQL: "UPDATE bill SET status = @status, iscancelled = @iscancelled, additionaldetails = @additionaldetails," +
			" reasonforcancellation = @reasonforcancellation," +
			" lastmodifiedby = @lastmodifiedby, lastmodifiedtime = @lastmodifiedtime" +
			" WHERE id = @id",
		Args: pgx.NamedArgs{
			"id":                    b.ID,
			"status":                string(b.Status),
			"iscancelled":           b.IsCancelled,
			"additionaldetails":     jsonb(b.AdditionalDetails),
			"reasonforcancellation": nullString(b.ReasonForCancellation),
			"lastmodifiedby":        nullString(audit.LastModifiedBy),
			"lastmodifiedtime":      nullInt(audit.LastModifiedTime),
		},
	}
}

// Field updates, used when receipt details are corrected.

// PaymentUpdate rewrites the payer fields of a payment.
func PaymentUpdate(p *model.Payment) Query {
	audit := auditOf(p.AuditDetails)

	return Query{
		SQL: "UPDATE payment SET additionaldetails = @additionaldetails, paidby = @paidby, payername = @payername," +
			" payeraddress = @payeraddress, payeremail = @payeremail," +
			" lastmodifiedby = @lastmodifiedby, lastmodifiedtime = @lastmodifiedtime" +
			" WHERE id = @id",
		Args: pgx.NamedArgs{
			"id":                p.ID,
			"additionaldetails": jsonb(p.AdditionalDetails),
			"paidby":            nullString(p.PaidBy),
			"payername":         nullString(p.PayerName),
			"payeraddress":      nullString(p.PayerAddress),
			"payeremail":        nullString(p.PayerEmail),
			"lastmodifiedby":    nullString(audit.LastModifiedBy),
			"lastmodifiedtime":  nullInt(audit.LastModifiedTime),
		},
	}
}

// PaymentDetailUpdate rewrites a detail's additional details.
func PaymentDetailUpdate(d *model.PaymentDetail) Query {
	audit := auditOf(d.AuditDetails)

	return Query{
		SQL: "UPDATE payment_detail SET additionaldetails = @additionaldetails," +
			" lastmodifiedby = @lastmodifiedby, lastmodifiedtime = @lastmodifiedtime" +
			" WHERE id = @id",
		Args: pgx.NamedArgs{
			"id":                d.ID,
			"additionaldetails": jsonb(d.AdditionalDetails),
			"lastmodifiedby":    nullString(audit.LastModifiedBy),
			"lastmodifiedtime":  nullInt(audit.LastModifiedTime),
		},
	}
}

// BillUpdate rewrites a bill's additional details and audit stamps.
func BillUpdate(b *model.Bill) Query {
	audit := auditOf(b.AuditDetails)

	return Query{
		SQL: "UPDATE bill SET additionaldetails = @additionaldetails, createdby = @createdby, createdtime = @createdtime," +
			" lastmodifiedby = @lastmodifiedby, lastmodifiedtime = @lastmodifiedtime" +
			" WHERE id = @id",
		Args: pgx.NamedArgs{
			"id":                b.ID,
			"additionaldetails": jsonb(b.AdditionalDetails),
			"createdby":         audit.CreatedBy,
			"createdtime":       audit.CreatedTime,
			"lastmodifiedby":    nullString(audit.LastModifiedBy),
			"lastmodifiedtime":  nullInt(audit.LastModifiedTime),
		},
	}
}

// BillDetailUpdate rewrites a line item's descriptive and manual-receipt fields.
func BillDetailUpdate(d *model.BillDetail) Query {
	audit := auditOf(d.AuditDetails)

	return Query{
		SQL: "UPDATE bill_detail SET additionaldetails = @additionaldetails, voucherheader = @voucherheader," +
			" manualreceiptnumber = @manualreceiptnumber, manualreceiptdate = @manualreceiptdate," +
			" billdescription = @billdescription, displaymessage = @displaymessage," +
			" createdby = @createdby, createdtime = @createdtime," +
			" lastmodifiedby = @lastmodifiedby, lastmodifiedtime = @lastmodifiedtime" +
			" WHERE id = @id",
		Args: pgx.NamedArgs{
			"id":                  d.ID,
			"additionaldetails":   jsonb(d.AdditionalDetails),
			"voucherheader":       nullString(d.VoucherHeader),
			"manualreceiptnumber": nullString(d.ManualReceiptNumber),
			"manualreceiptdate":   nullInt(d.ManualReceiptDate),
			"billdescription":     nullString(d.BillDescription),
			"displaymessage":      nullString(d.DisplayMessage),
			"createdby":           nullString(audit.CreatedBy),
			"createdtime":         nullInt(audit.CreatedTime),
			"lastmodifiedby":      nullString(audit.LastModifiedBy),
			"lastmodifiedtime":    nullInt(audit.LastModifiedTime),
		},
	}
}

// UpdateFileStoreID sets the file-store reference of the receipt document.
func UpdateFileStoreID(id, fileStoreID string) Query {
	return Query{
		SQL:  "UPDATE payment SET filestoreid = @filestoreid WHERE id = @id",
		Args: pgx.NamedArgs{"id": id, "filestoreid": fileStoreID},
	}
}

// ClearFileStoreID drops the file-store reference so the receipt is regenerated.
func ClearFileStoreID(id string) Query {
	return Query{
		SQL:  "UPDATE payment SET filestoreid = NULL WHERE id = @id",
		Args: pgx.NamedArgs{"id": id},
	}
}
