package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer

	err := PrintJSON(&buf, map[string]any{"id": "PAY-1", "amount": 10})
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"amount\": 10,\n\t\"id\": \"PAY-1\"\n}\n", buf.String())
}

func TestPrintJSONUnsupportedValue(t *testing.T) {
	var buf bytes.Buffer

	err := PrintJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Empty(t, buf.String())
}
