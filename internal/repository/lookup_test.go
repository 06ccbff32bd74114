package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func nullableRows(column string, values ...*string) *fakeRows {
	rows := &fakeRows{columns: []string{column}}
	for _, v := range values {
		rows.values = append(rows.values, []any{v})
	}
	return rows
}

func TestPropertyDetail(t *testing.T) {
	db := &fakeDB{respond: func(sql string) (pgx.Rows, error) {
		switch {
		case strings.Contains(sql, "oldconnectionno"):
			return nullableRows("oldconnectionno", ptr("OLD-1"), ptr("OLD-2")), nil
		case strings.Contains(sql, "landarea"):
			return nullableRows("landarea"), nil
		default:
			return nullableRows("usagecategory", ptr("RESIDENTIAL")), nil
		}
	}}
	repo := newTestRepository(db)

	detail := repo.PropertyDetail(context.Background(), "WS/107/2020-21/0001")

	assert.Equal(t, []string{"OLD-1", "RESIDENTIAL"}, detail)
	for _, st := range db.statements {
		assert.Equal(t, "WS/107/2020-21/0001", st.args["consumercode"])
	}
}

func TestPropertyDetailNothingFound(t *testing.T) {
	db := &fakeDB{respond: func(sql string) (pgx.Rows, error) {
		if strings.Contains(sql, "landarea") {
			return nullableRows("landarea", nil), nil
		}
		return nullableRows("value"), nil
	}}
	repo := newTestRepository(db)

	detail := repo.PropertyDetail(context.Background(), "WS/107/2020-21/0002")

	assert.NotNil(t, detail)
	assert.Empty(t, detail)
	assert.Len(t, db.statements, 3)
}

func TestLookupNullValues(t *testing.T) {
	db := &fakeDB{respond: func(string) (pgx.Rows, error) {
		return nullableRows("address", nil, ptr("12 Mall Road")), nil
	}}
	repo := newTestRepository(db)

	assert.Equal(t, []string{"", "12 Mall Road"}, repo.AddressByApplicationNumber(context.Background(), "WS_AP/107/2021/1"))
	assert.Contains(t, db.statements[0].sql, "eg_ws_connection")
}

func TestLookupFailuresAreSuppressed(t *testing.T) {
	db := &fakeDB{respond: func(string) (pgx.Rows, error) {
		return nil, errors.New("relation \"eg_sw_connection\" does not exist")
	}}
	repo := newTestRepository(db)
	ctx := context.Background()

	for name, got := range map[string][]string{
		"usage category": repo.UsageCategoryByApplicationNumber(ctx, "SW_AP/107/2021/1"),
		"address":        repo.AddressByApplicationNumber(ctx, "SW_AP/107/2021/1"),
		"consumer code":  repo.ConsumerCodeByReceiptNumber(ctx, "RCPT-1"),
		"land area":      repo.LandArea(ctx, "WS/1"),
	} {
		assert.NotNil(t, got, name)
		assert.Empty(t, got, name)
	}
	assert.Equal(t, []string{}, repo.PropertyDetail(ctx, "WS/1"))
}

func TestLookupScanFailureIsSuppressed(t *testing.T) {
	db := &fakeDB{respond: func(string) (pgx.Rows, error) {
		return &fakeRows{err: errors.New("conn closed")}, nil
	}}
	repo := newTestRepository(db)

	got := repo.ConsumerCodeByReceiptNumber(context.Background(), "RCPT-1")
	assert.Equal(t, []string{}, got)
	assert.Equal(t, "RCPT-1", db.statements[0].args["receiptnumber"])
}
