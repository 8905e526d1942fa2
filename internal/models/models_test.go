package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagAcceptsNumbersAndBooleans(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`1`, true},
		{`"1"`, true},
		{`false`, false},
		{`0`, false},
		{`null`, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var f Flag
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &f))
			assert.Equal(t, tt.want, bool(f))
		})
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &f))

	out, err := json.Marshal(Flag(true))
	require.NoError(t, err)
	assert.Equal(t, "true", string(out))
}

func TestFillAliases(t *testing.T) {
	o := OrderSummary{Order: Order{
		TotalAmount: decimal.NewFromInt(1300),
		FinalTotal:  decimal.NewFromInt(1200),
	}}
	o.FillAliases()
	assert.True(t, o.Subtotal.Equal(o.TotalAmount))
	assert.True(t, o.FinalAmount.Equal(o.FinalTotal))
}

func TestMoneyMarshalsAsNumber(t *testing.T) {
	out, err := json.Marshal(Product{Name: "Pen", Price: decimal.RequireFromString("12.50")})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"price":12.5`)
}
