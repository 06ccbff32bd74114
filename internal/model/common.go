// Package model holds the collection domain types: payments, their
// details and the bills they settle, plus the search criteria used to
// find them.
//
// Amounts are shopspring decimals and every date is epoch milliseconds,
// matching the bigint columns they are stored in.
package model

import "bytes"

// AuditDetails records who created and last modified a row, and when.
type AuditDetails struct {
	CreatedBy        string `json:"createdBy" validate:"required"`
	CreatedTime      int64  `json:"createdTime"`
	LastModifiedBy   string `json:"lastModifiedBy"`
	LastModifiedTime int64  `json:"lastModifiedTime"`
}

// AdditionalDetails is an opaque JSON document stored in a jsonb column.
//
// It is never parsed by this layer. A nil value, or the literal JSON null,
// is absent and persists as SQL NULL.
type AdditionalDetails []byte

var jsonNull = []byte("null")

// IsNull reports whether the document is absent.
func (a AdditionalDetails) IsNull() bool {
	return len(a) == 0 || bytes.Equal(bytes.TrimSpace(a), jsonNull)
}

// MarshalJSON emits the raw document, or null when absent.
func (a AdditionalDetails) MarshalJSON() ([]byte, error) {
	if a.IsNull() {
		return jsonNull, nil
	}
	return a, nil
}

// UnmarshalJSON keeps a copy of the raw document. JSON null becomes nil.
func (a *AdditionalDetails) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*a = nil
		return nil
	}
	*a = append((*a)[:0], data...)
	return nil
}
