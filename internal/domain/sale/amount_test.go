package sale

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "30", want: "30"},
		{in: " 12.50 ", want: "12.5"},
		{in: "", want: "0"},
		{in: "abc", want: "0"},
		{in: "30,5", want: "0"},
		{in: "-5", want: "0"},
		{in: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseAmount(tt.in)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "R$ 0,00"},
		{in: "120", want: "R$ 120,00"},
		{in: "35.9", want: "R$ 35,90"},
		{in: "1234.56", want: "R$ 1.234,56"},
		{in: "1234567.8", want: "R$ 1.234.567,80"},
		{in: "-20", want: "-R$ 20,00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBRL(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestPaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("credit")
	assert.NoError(t, err)
	assert.Equal(t, PaymentCreditCard, m)
	assert.Equal(t, "CARTAO CREDITO", m.Label())
	assert.Equal(t, "-", PaymentMethod("").Label())

	_, err = ParsePaymentMethod("cheque")
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}
