package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erlove000/business-services/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"migrate", "health", "save", "search", "lookup"})

	lookup, _, err := root.Find([]string{"lookup", "consumer-code"})
	require.NoError(t, err)
	assert.Equal(t, "consumer-code", lookup.Name())

	search, _, err := root.Find([]string{"search"})
	require.NoError(t, err)
	for _, flag := range []string{"tenant", "receipt", "from", "to", "offset", "limit", "plain"} {
		assert.NotNil(t, search.Flags().Lookup(flag), flag)
	}
}

func TestReadPayment(t *testing.T) {
	body := `{"id":"PAY-1","tenantId":"pb.amritsar","totalAmountPaid":"100.50","additionalDetails":{"a":1}}`

	p, err := readPayment(strings.NewReader(body), "-")
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", p.ID)
	assert.Equal(t, "100.5", p.TotalAmountPaid.String())
	assert.JSONEq(t, `{"a":1}`, string(p.AdditionalDetails))

	path := filepath.Join(t.TempDir(), "payment.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	p, err = readPayment(strings.NewReader(""), path)
	require.NoError(t, err)
	assert.Equal(t, "pb.amritsar", p.TenantID)

	_, err = readPayment(strings.NewReader("{"), "-")
	assert.Error(t, err)
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, errors.New("service unhealthy"))

	var plain errs.AppError
	require.NoError(t, json.Unmarshal(buf.Bytes(), &plain))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", plain.Code)
	assert.Equal(t, "service unhealthy", plain.Message)

	buf.Reset()
	coded := errs.NewValidationError("Validation failed", []errs.FieldError{{Field: "limit", Error: "must not exceed 500"}})
	reportError(&buf, fmt.Errorf("search: %w", coded))

	var got errs.AppError
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, errs.CodeValidationFailed, got.Code)
	assert.Equal(t, []errs.FieldError{{Field: "limit", Error: "must not exceed 500"}}, got.Errors)
}
