package model

import "github.com/shopspring/decimal"

// BillStatus is the state of a bill.
type BillStatus string

const (
	BillStatusActive    BillStatus = "ACTIVE"
	BillStatusCancelled BillStatus = "CANCELLED"
	BillStatusPaid      BillStatus = "PAID"
	BillStatusExpired   BillStatus = "EXPIRED"
)

// Bill is an external obligation being paid.
type Bill struct {
	ID                        string            `json:"id" validate:"required"`
	Status                    BillStatus        `json:"status" validate:"required"`
	IsCancelled               bool              `json:"isCancelled"`
	TenantID                  string            `json:"tenantId" validate:"required"`
	BusinessService           string            `json:"businessService" validate:"required"`
	TotalAmount               decimal.Decimal   `json:"totalAmount"`
	ConsumerCode              string            `json:"consumerCode" validate:"required"`
	BillNumber                string            `json:"billNumber" validate:"required"`
	BillDate                  int64             `json:"billDate"`
	CollectionModesNotAllowed []string          `json:"collectionModesNotAllowed"`
	PartPaymentAllowed        bool              `json:"partPaymentAllowed"`
	IsAdvanceAllowed          bool              `json:"isAdvanceAllowed"`
	MinimumAmountToBePaid     decimal.Decimal   `json:"minimumAmountToBePaid"`
	ReasonForCancellation     string            `json:"reasonForCancellation"`
	AdditionalDetails         AdditionalDetails `json:"additionalDetails"`
	AuditDetails              *AuditDetails     `json:"auditDetails" validate:"required"`
	BillDetails               []BillDetail      `json:"billDetails" validate:"dive"`
}

// BillDetail is one line item, usually a billing period, of a bill.
type BillDetail struct {
	ID                      string              `json:"id" validate:"required"`
	TenantID                string              `json:"tenantId" validate:"required"`
	DemandID                string              `json:"demandId"`
	BillID                  string              `json:"billId"`
	Amount                  decimal.Decimal     `json:"amount"`
	AmountPaid              decimal.Decimal     `json:"amountPaid"`
	FromPeriod              int64               `json:"fromPeriod"`
	ToPeriod                int64               `json:"toPeriod"`
	AdditionalDetails       AdditionalDetails   `json:"additionalDetails"`
	Channel                 string              `json:"channel"`
	VoucherHeader           string              `json:"voucherHeader"`
	Boundary                string              `json:"boundary"`
	ManualReceiptNumber     string              `json:"manualReceiptNumber"`
	ManualReceiptDate       int64               `json:"manualReceiptDate"`
	CollectionType          string              `json:"collectionType"`
	BillDescription         string              `json:"billDescription"`
	ExpiryDate              int64               `json:"expiryDate"`
	DisplayMessage          string              `json:"displayMessage"`
	CallBackForApportioning bool                `json:"callBackForApportioning"`
	CancellationRemarks     string              `json:"cancellationRemarks"`
	AuditDetails            *AuditDetails       `json:"auditDetails" validate:"omitempty"`
	BillAccountDetails      []BillAccountDetail `json:"billAccountDetails" validate:"dive"`
}

// BillAccountDetail splits a bill detail's amount across tax heads.
type BillAccountDetail struct {
	ID                string            `json:"id" validate:"required"`
	TenantID          string            `json:"tenantId" validate:"required"`
	BillDetailID      string            `json:"billDetailId"`
	DemandDetailID    string            `json:"demandDetailId"`
	Order             int32             `json:"order"`
	Amount            decimal.Decimal   `json:"amount"`
	AdjustedAmount    decimal.Decimal   `json:"adjustedAmount"`
	IsActualDemand    bool              `json:"isActualDemand"`
	TaxHeadCode       string            `json:"taxHeadCode"`
	AdditionalDetails AdditionalDetails `json:"additionalDetails"`
}
