package model

// SearchCriteria selects payments. Empty fields are not filtered on.
//
// Offset is a zero-based count of payments to skip and Limit the number of
// distinct payments to return; pagination is by ascending payment id.
type SearchCriteria struct {
	TenantID          string   `json:"tenantId"`
	IDs               []string `json:"ids"`
	ReceiptNumbers    []string `json:"receiptNumbers"`
	Status            []string `json:"status"`
	InstrumentStatus  []string `json:"instrumentStatus"`
	PaymentModes      []string `json:"paymentModes"`
	MobileNumber      string   `json:"mobileNumber"`
	TransactionNumber string   `json:"transactionNumber"`
	FromDate          *int64   `json:"fromDate"`
	ToDate            *int64   `json:"toDate"`
	PayerIDs          []string `json:"payerIds"`
	BusinessServices  []string `json:"businessServices"`
	ConsumerCodes     []string `json:"consumerCodes"`
	BillIDs           []string `json:"billIds"`
	Offset            int      `json:"offset" validate:"min=0"`
	Limit             int      `json:"limit" validate:"min=0"`
}
