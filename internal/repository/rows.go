package repository

import (
	"strings"

	"github.com/erlove000/business-services/internal/model"
	"github.com/shopspring/decimal"
)

// paymentRow is one row of the joined payment search: a payment, one of its
// details, and the dense rank used for pagination.
type paymentRow struct {
	ID                string              `db:"py_id"`
	TenantID          string              `db:"py_tenantid"`
	TotalDue          decimal.NullDecimal `db:"py_totaldue"`
	TotalAmountPaid   decimal.Decimal     `db:"py_totalamountpaid"`
	TransactionNumber string              `db:"py_transactionnumber"`
	TransactionDate   int64               `db:"py_transactiondate"`
	PaymentMode       string              `db:"py_paymentmode"`
	InstrumentDate    *int64              `db:"py_instrumentdate"`
	InstrumentNumber  *string             `db:"py_instrumentnumber"`
	InstrumentStatus  string              `db:"py_instrumentstatus"`
	IfscCode          *string             `db:"py_ifsccode"`
	AdditionalDetails []byte              `db:"py_additionaldetails"`
	PaidBy            *string             `db:"py_paidby"`
	MobileNumber      *string             `db:"py_mobilenumber"`
	PayerName         *string             `db:"py_payername"`
	PayerAddress      *string             `db:"py_payeraddress"`
	PayerEmail        *string             `db:"py_payeremail"`
	PayerID           *string             `db:"py_payerid"`
	PaymentStatus     *string             `db:"py_paymentstatus"`
	FileStoreID       *string             `db:"py_filestoreid"`
	CreatedBy         string              `db:"py_createdby"`
	CreatedTime       int64               `db:"py_createdtime"`
	LastModifiedBy    *string             `db:"py_lastmodifiedby"`
	LastModifiedTime  *int64              `db:"py_lastmodifiedtime"`

	DetailID                  string              `db:"pyd_id"`
	DetailTenantID            string              `db:"pyd_tenantid"`
	DetailPaymentID           string              `db:"pyd_paymentid"`
	DetailDue                 decimal.NullDecimal `db:"pyd_due"`
	DetailAmountPaid          decimal.Decimal     `db:"pyd_amountpaid"`
	DetailReceiptNumber       string              `db:"pyd_receiptnumber"`
	DetailReceiptDate         int64               `db:"pyd_receiptdate"`
	DetailReceiptType         string              `db:"pyd_receipttype"`
	DetailBusinessService     string              `db:"pyd_businessservice"`
	DetailBillID              string              `db:"pyd_billid"`
	DetailManualReceiptNumber *string             `db:"pyd_manualreceiptnumber"`
	DetailManualReceiptDate   *int64              `db:"pyd_manualreceiptdate"`
	DetailAdditionalDetails   []byte              `db:"pyd_additionaldetails"`
	DetailCreatedBy           string              `db:"pyd_createdby"`
	DetailCreatedTime         int64               `db:"pyd_createdtime"`
	DetailLastModifiedBy      *string             `db:"pyd_lastmodifiedby"`
	DetailLastModifiedTime    *int64              `db:"pyd_lastmodifiedtime"`

	Rank int64 `db:"offset_"`
}

func (r *paymentRow) payment() model.Payment {
	return model.Payment{
		ID:                r.ID,
		TenantID:          r.TenantID,
		TotalDue:          r.TotalDue.Decimal,
		TotalAmountPaid:   r.TotalAmountPaid,
		TransactionNumber: r.TransactionNumber,
		TransactionDate:   r.TransactionDate,
		PaymentMode:       model.PaymentModeEnum(r.PaymentMode),
		InstrumentDate:    deref(r.InstrumentDate),
		InstrumentNumber:  deref(r.InstrumentNumber),
		InstrumentStatus:  model.InstrumentStatusEnum(r.InstrumentStatus),
		IfscCode:          deref(r.IfscCode),
		AdditionalDetails: model.AdditionalDetails(r.AdditionalDetails),
		PaidBy:            deref(r.PaidBy),
		MobileNumber:      deref(r.MobileNumber),
		PayerName:         deref(r.PayerName),
		PayerAddress:      deref(r.PayerAddress),
		PayerEmail:        deref(r.PayerEmail),
		PayerID:           deref(r.PayerID),
		PaymentStatus:     model.PaymentStatusEnum(deref(r.PaymentStatus)),
		FileStoreID:       deref(r.FileStoreID),
		AuditDetails: &model.AuditDetails{
			CreatedBy:        r.CreatedBy,
			CreatedTime:      r.CreatedTime,
			LastModifiedBy:   deref(r.LastModifiedBy),
			LastModifiedTime: deref(r.LastModifiedTime),
		},
	}
}

func (r *paymentRow) detail() model.PaymentDetail {
	return model.PaymentDetail{
		ID:                  r.DetailID,
		PaymentID:           r.DetailPaymentID,
		TenantID:            r.DetailTenantID,
		TotalDue:            r.DetailDue.Decimal,
		TotalAmountPaid:     r.DetailAmountPaid,
		ReceiptNumber:       r.DetailReceiptNumber,
		ManualReceiptNumber: deref(r.DetailManualReceiptNumber),
		ManualReceiptDate:   deref(r.DetailManualReceiptDate),
		ReceiptDate:         r.DetailReceiptDate,
		ReceiptType:         r.DetailReceiptType,
		BusinessService:     r.DetailBusinessService,
		BillID:              r.DetailBillID,
		AdditionalDetails:   model.AdditionalDetails(r.DetailAdditionalDetails),
		AuditDetails: &model.AuditDetails{
			CreatedBy:        r.DetailCreatedBy,
			CreatedTime:      r.DetailCreatedTime,
			LastModifiedBy:   deref(r.DetailLastModifiedBy),
			LastModifiedTime: deref(r.DetailLastModifiedTime),
		},
	}
}

// billRow is one row of the bill load. Detail and account detail columns
// are NULL for bills without details.
type billRow struct {
	ID                        string              `db:"b_id"`
	Status                    *string             `db:"b_status"`
	IsCancelled               *bool               `db:"b_iscancelled"`
	AdditionalDetails         []byte              `db:"b_additionaldetails"`
	TenantID                  string              `db:"b_tenantid"`
	CollectionModesNotAllowed *string             `db:"b_collectionmodesnotallowed"`
	PartPaymentAllowed        *bool               `db:"b_partpaymentallowed"`
	IsAdvanceAllowed          *bool               `db:"b_isadvanceallowed"`
	MinimumAmountToBePaid     decimal.NullDecimal `db:"b_minimumamounttobepaid"`
	BusinessService           string              `db:"b_businessservice"`
	TotalAmount               decimal.Decimal     `db:"b_totalamount"`
	ConsumerCode              string              `db:"b_consumercode"`
	BillNumber                string              `db:"b_billnumber"`
	BillDate                  int64               `db:"b_billdate"`
	ReasonForCancellation     *string             `db:"b_reasonforcancellation"`
	CreatedBy                 string              `db:"b_createdby"`
	CreatedTime               int64               `db:"b_createdtime"`
	LastModifiedBy            *string             `db:"b_lastmodifiedby"`
	LastModifiedTime          *int64              `db:"b_lastmodifiedtime"`

	DetailID                      *string             `db:"bd_id"`
	DetailTenantID                *string             `db:"bd_tenantid"`
	DetailDemandID                *string             `db:"bd_demandid"`
	DetailBillID                  *string             `db:"bd_billid"`
	DetailAmount                  decimal.NullDecimal `db:"bd_amount"`
	DetailAmountPaid              decimal.NullDecimal `db:"bd_amountpaid"`
	DetailFromPeriod              *int64              `db:"bd_fromperiod"`
	DetailToPeriod                *int64              `db:"bd_toperiod"`
	DetailAdditionalDetails       []byte              `db:"bd_additionaldetails"`
	DetailChannel                 *string             `db:"bd_channel"`
	DetailVoucherHeader           *string             `db:"bd_voucherheader"`
	DetailBoundary                *string             `db:"bd_boundary"`
	DetailManualReceiptNumber     *string             `db:"bd_manualreceiptnumber"`
	DetailManualReceiptDate       *int64              `db:"bd_manualreceiptdate"`
	DetailCollectionType          *string             `db:"bd_collectiontype"`
	DetailBillDescription         *string             `db:"bd_billdescription"`
	DetailExpiryDate              *int64              `db:"bd_expirydate"`
	DetailDisplayMessage          *string             `db:"bd_displaymessage"`
	DetailCallBackForApportioning *bool               `db:"bd_callbackforapportioning"`
	DetailCancellationRemarks     *string             `db:"bd_cancellationremarks"`
	DetailCreatedBy               *string             `db:"bd_createdby"`
	DetailCreatedTime             *int64              `db:"bd_createdtime"`
	DetailLastModifiedBy          *string             `db:"bd_lastmodifiedby"`
	DetailLastModifiedTime        *int64              `db:"bd_lastmodifiedtime"`

	AccountID                *string             `db:"ad_id"`
	AccountTenantID          *string             `db:"ad_tenantid"`
	AccountBillDetailID      *string             `db:"ad_billdetailid"`
	AccountDemandDetailID    *string             `db:"ad_demanddetailid"`
	AccountOrder             *int32              `db:"ad_order"`
	AccountAmount            decimal.NullDecimal `db:"ad_amount"`
	AccountAdjustedAmount    decimal.NullDecimal `db:"ad_adjustedamount"`
	AccountIsActualDemand    *bool               `db:"ad_isactualdemand"`
	AccountTaxHeadCode       *string             `db:"ad_taxheadcode"`
	AccountAdditionalDetails []byte              `db:"ad_additionaldetails"`
}

func (r *billRow) bill() model.Bill {
	var modes []string
	if s := deref(r.CollectionModesNotAllowed); s != "" {
		modes = strings.Split(s, ",")
	}

	return model.Bill{
		ID:                        r.ID,
		Status:                    model.BillStatus(deref(r.Status)),
		IsCancelled:               deref(r.IsCancelled),
		TenantID:                  r.TenantID,
		BusinessService:           r.BusinessService,
		TotalAmount:               r.TotalAmount,
		ConsumerCode:              r.ConsumerCode,
		BillNumber:                r.BillNumber,
		BillDate:                  r.BillDate,
		CollectionModesNotAllowed: modes,
		PartPaymentAllowed:        deref(r.PartPaymentAllowed),
		IsAdvanceAllowed:          deref(r.IsAdvanceAllowed),
		MinimumAmountToBePaid:     r.MinimumAmountToBePaid.Decimal,
		ReasonForCancellation:     deref(r.ReasonForCancellation),
		AdditionalDetails:         model.AdditionalDetails(r.AdditionalDetails),
		AuditDetails: &model.AuditDetails{
			CreatedBy:        r.CreatedBy,
			CreatedTime:      r.CreatedTime,
			LastModifiedBy:   deref(r.LastModifiedBy),
			LastModifiedTime: deref(r.LastModifiedTime),
		},
	}
}

func (r *billRow) detail() model.BillDetail {
	d := model.BillDetail{
		ID:                      deref(r.DetailID),
		TenantID:                deref(r.DetailTenantID),
		DemandID:                deref(r.DetailDemandID),
		BillID:                  deref(r.DetailBillID),
		Amount:                  r.DetailAmount.Decimal,
		AmountPaid:              r.DetailAmountPaid.Decimal,
		FromPeriod:              deref(r.DetailFromPeriod),
		ToPeriod:                deref(r.DetailToPeriod),
		AdditionalDetails:       model.AdditionalDetails(r.DetailAdditionalDetails),
		Channel:                 deref(r.DetailChannel),
		VoucherHeader:           deref(r.DetailVoucherHeader),
		Boundary:                deref(r.DetailBoundary),
		ManualReceiptNumber:     deref(r.DetailManualReceiptNumber),
		ManualReceiptDate:       deref(r.DetailManualReceiptDate),
		CollectionType:          deref(r.DetailCollectionType),
		BillDescription:         deref(r.DetailBillDescription),
		ExpiryDate:              deref(r.DetailExpiryDate),
		DisplayMessage:          deref(r.DetailDisplayMessage),
		CallBackForApportioning: deref(r.DetailCallBackForApportioning),
		CancellationRemarks:     deref(r.DetailCancellationRemarks),
	}

	// Line items may be stored without audit columns.
	if r.DetailCreatedBy != nil || r.DetailCreatedTime != nil || r.DetailLastModifiedBy != nil || r.DetailLastModifiedTime != nil {
		d.AuditDetails = &model.AuditDetails{
			CreatedBy:        deref(r.DetailCreatedBy),
			CreatedTime:      deref(r.DetailCreatedTime),
			LastModifiedBy:   deref(r.DetailLastModifiedBy),
			LastModifiedTime: deref(r.DetailLastModifiedTime),
		}
	}
	return d
}

func (r *billRow) accountDetail() model.BillAccountDetail {
	return model.BillAccountDetail{
		ID:                deref(r.AccountID),
		TenantID:          deref(r.AccountTenantID),
		BillDetailID:      deref(r.AccountBillDetailID),
		DemandDetailID:    deref(r.AccountDemandDetailID),
		Order:             deref(r.AccountOrder),
		Amount:            r.AccountAmount.Decimal,
		AdjustedAmount:    r.AccountAdjustedAmount.Decimal,
		IsActualDemand:    deref(r.AccountIsActualDemand),
		TaxHeadCode:       deref(r.AccountTaxHeadCode),
		AdditionalDetails: model.AdditionalDetails(r.AccountAdditionalDetails),
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// accumulator collects items by id, keeping first-seen order.
type accumulator[T any] struct {
	order []string
	items map[string]*T
}

func newAccumulator[T any]() *accumulator[T] {
	return &accumulator[T]{items: make(map[string]*T)}
}

// get returns the item for id, creating it with build on first sight.
func (a *accumulator[T]) get(id string, build func() T) *T {
	if item, ok := a.items[id]; ok {
		return item
	}
	item := build()
	a.items[id] = &item
	a.order = append(a.order, id)
	return &item
}

func (a *accumulator[T]) values() []*T {
	out := make([]*T, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.items[id])
	}
	return out
}

type paymentNode struct {
	payment model.Payment
	details *accumulator[model.PaymentDetail]
}

// foldPayments groups joined rows into payments with their details.
func foldPayments(rows []paymentRow) []model.Payment {
	payments := newAccumulator[paymentNode]()
	for i := range rows {
		row := &rows[i]
		node := payments.get(row.ID, func() paymentNode {
			return paymentNode{payment: row.payment(), details: newAccumulator[model.PaymentDetail]()}
		})
		node.details.get(row.DetailID, row.detail)
	}

	out := make([]model.Payment, 0, len(payments.order))
	for _, node := range payments.values() {
		p := node.payment
		for _, d := range node.details.values() {
			p.PaymentDetails = append(p.PaymentDetails, *d)
		}
		out = append(out, p)
	}
	return out
}

type billNode struct {
	bill    model.Bill
	details *accumulator[billDetailNode]
}

type billDetailNode struct {
	detail   model.BillDetail
	accounts *accumulator[model.BillAccountDetail]
}

// foldBills groups joined rows into bills with their details and account details.
func foldBills(rows []billRow) map[string]*model.Bill {
	bills := newAccumulator[billNode]()
	for i := range rows {
		row := &rows[i]
		node := bills.get(row.ID, func() billNode {
			return billNode{bill: row.bill(), details: newAccumulator[billDetailNode]()}
		})
		if row.DetailID == nil {
			continue
		}

		detailNode := node.details.get(*row.DetailID, func() billDetailNode {
			return billDetailNode{detail: row.detail(), accounts: newAccumulator[model.BillAccountDetail]()}
		})
		if row.AccountID == nil {
			continue
		}
		detailNode.accounts.get(*row.AccountID, row.accountDetail)
	}

	out := make(map[string]*model.Bill, len(bills.order))
	for _, node := range bills.values() {
		b := node.bill
		for _, dn := range node.details.values() {
			d := dn.detail
			for _, a := range dn.accounts.values() {
				d.BillAccountDetails = append(d.BillAccountDetails, *a)
			}
			b.BillDetails = append(b.BillDetails, d)
		}
		out[b.ID] = &b
	}
	return out
}
