package model

import "github.com/shopspring/decimal"

// PaymentModeEnum is how the payer paid.
type PaymentModeEnum string

const (
	PaymentModeCash        PaymentModeEnum = "CASH"
	PaymentModeCheque      PaymentModeEnum = "CHEQUE"
	PaymentModeDD          PaymentModeEnum = "DD"
	PaymentModeOnline      PaymentModeEnum = "ONLINE"
	PaymentModeCard        PaymentModeEnum = "CARD"
	PaymentModeOfflineNEFT PaymentModeEnum = "OFFLINE_NEFT"
	PaymentModeOfflineRTGS PaymentModeEnum = "OFFLINE_RTGS"
	PaymentModePostalOrder PaymentModeEnum = "POSTAL_ORDER"
)

// InstrumentStatusEnum is the state of the payment instrument.
type InstrumentStatusEnum string

const (
	InstrumentStatusApproved        InstrumentStatusEnum = "APPROVED"
	InstrumentStatusApprovalPending InstrumentStatusEnum = "APPROVAL_PENDING"
	InstrumentStatusToBeSubmitted   InstrumentStatusEnum = "TOBESUBMITTED"
	InstrumentStatusRemitted        InstrumentStatusEnum = "REMITTED"
	InstrumentStatusRejected        InstrumentStatusEnum = "REJECTED"
	InstrumentStatusCancelled       InstrumentStatusEnum = "CANCELLED"
	InstrumentStatusDishonoured     InstrumentStatusEnum = "DISHONOURED"
)

// PaymentStatusEnum is the lifecycle state of a payment. Transitions are
// decided by the caller; this layer only persists them.
type PaymentStatusEnum string

const (
	PaymentStatusNew         PaymentStatusEnum = "NEW"
	PaymentStatusDeposited   PaymentStatusEnum = "DEPOSITED"
	PaymentStatusCancelled   PaymentStatusEnum = "CANCELLED"
	PaymentStatusDishonoured PaymentStatusEnum = "DISHONOURED"
	PaymentStatusReconciled  PaymentStatusEnum = "RECONCILED"
)

// Payment is one payer transaction, allocated across bills by its details.
type Payment struct {
	ID                string               `json:"id" validate:"required"`
	TenantID          string               `json:"tenantId" validate:"required"`
	TotalDue          decimal.Decimal      `json:"totalDue"`
	TotalAmountPaid   decimal.Decimal      `json:"totalAmountPaid"`
	TransactionNumber string               `json:"transactionNumber" validate:"required"`
	TransactionDate   int64                `json:"transactionDate"`
	PaymentMode       PaymentModeEnum      `json:"paymentMode" validate:"required"`
	InstrumentDate    int64                `json:"instrumentDate"`
	InstrumentNumber  string               `json:"instrumentNumber"`
	InstrumentStatus  InstrumentStatusEnum `json:"instrumentStatus" validate:"required"`
	IfscCode          string               `json:"ifscCode"`
	AuditDetails      *AuditDetails        `json:"auditDetails" validate:"required"`
	AdditionalDetails AdditionalDetails    `json:"additionalDetails"`
	PaymentDetails    []PaymentDetail      `json:"paymentDetails" validate:"required,min=1,dive"`
	PaidBy            string               `json:"paidBy"`
	MobileNumber      string               `json:"mobileNumber"`
	PayerName         string               `json:"payerName"`
	PayerAddress      string               `json:"payerAddress"`
	PayerEmail        string               `json:"payerEmail"`
	PayerID           string               `json:"payerId"`
	PaymentStatus     PaymentStatusEnum    `json:"paymentStatus" validate:"required"`
	FileStoreID       string               `json:"fileStoreId"`
}

// BillIDs returns the distinct bill ids referenced by the payment's details, in first-seen order.
func (p *Payment) BillIDs() []string {
	seen := make(map[string]struct{}, len(p.PaymentDetails))
	ids := make([]string, 0, len(p.PaymentDetails))
	for _, detail := range p.PaymentDetails {
		if _, ok := seen[detail.BillID]; ok {
			continue
		}
		seen[detail.BillID] = struct{}{}
		ids = append(ids, detail.BillID)
	}
	return ids
}

// PaymentDetail allocates part of a payment to exactly one bill.
type PaymentDetail struct {
	ID                  string            `json:"id" validate:"required"`
	PaymentID           string            `json:"paymentId"`
	TenantID            string            `json:"tenantId" validate:"required"`
	TotalDue            decimal.Decimal   `json:"totalDue"`
	TotalAmountPaid     decimal.Decimal   `json:"totalAmountPaid"`
	ReceiptNumber       string            `json:"receiptNumber" validate:"required"`
	ManualReceiptNumber string            `json:"manualReceiptNumber"`
	ManualReceiptDate   int64             `json:"manualReceiptDate"`
	ReceiptDate         int64             `json:"receiptDate"`
	ReceiptType         string            `json:"receiptType" validate:"required"`
	BusinessService     string            `json:"businessService" validate:"required"`
	BillID              string            `json:"billId" validate:"required"`
	Bill                *Bill             `json:"bill" validate:"required"`
	AdditionalDetails   AdditionalDetails `json:"additionalDetails"`
	AuditDetails        *AuditDetails     `json:"auditDetails" validate:"required"`
}
