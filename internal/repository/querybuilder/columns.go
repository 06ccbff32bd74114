package querybuilder

import "strings"

// Column lists per table, in storage order. Audit tables share them.
const (
	paymentColumns = "id, tenantid, totaldue, totalamountpaid, transactionnumber, transactiondate, " +
		"paymentmode, instrumentdate, instrumentnumber, instrumentstatus, ifsccode, additionaldetails, " +
		"paidby, mobilenumber, payername, payeraddress, payeremail, payerid, paymentstatus, filestoreid, " +
		"createdby, createdtime, lastmodifiedby, lastmodifiedtime"

	paymentDetailColumns = "id, tenantid, paymentid, due, amountpaid, receiptnumber, receiptdate, receipttype, " +
		"businessservice, billid, manualreceiptnumber, manualreceiptdate, additionaldetails, " +
		"createdby, createdtime, lastmodifiedby, lastmodifiedtime"

	billColumns = "id, status, iscancelled, additionaldetails, tenantid, collectionmodesnotallowed, " +
		"partpaymentallowed, isadvanceallowed, minimumamounttobepaid, businessservice, totalamount, " +
		"consumercode, billnumber, billdate, reasonforcancellation, " +
		"createdby, createdtime, lastmodifiedby, lastmodifiedtime"

	billDetailColumns = "id, tenantid, demandid, billid, amount, amountpaid, fromperiod, toperiod, additionaldetails, " +
		"channel, voucherheader, boundary, manualreceiptnumber, manualreceiptdate, collectiontype, " +
		"billdescription, expirydate, displaymessage, callbackforapportioning, cancellationremarks, " +
		"createdby, createdtime, lastmodifiedby, lastmodifiedtime"

	billAccountDetailColumns = `id, tenantid, billdetailid, demanddetailid, "order", amount, adjustedamount, ` +
		"isactualdemand, taxheadcode, additionaldetails"
)

// columnNames splits a column list into bare names.
func columnNames(columns string) []string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// project renders "alias.col AS prefixcol" for every column.
func project(alias, prefix, columns string) string {
	names := columnNames(columns)
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = alias + "." + name + " AS " + prefix + strings.Trim(name, `"`)
	}
	return strings.Join(out, ", ")
}

// placeholders renders "@col" for every column, for use in VALUES lists.
func placeholders(columns string) string {
	names := columnNames(columns)
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = "@" + strings.Trim(name, `"`)
	}
	return strings.Join(out, ", ")
}
