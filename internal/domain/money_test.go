package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Cents
		wantErr bool
	}{
		{name: "whole amount", input: "100", want: 10000},
		{name: "two decimals", input: "100.00", want: 10000},
		{name: "one decimal", input: "0.5", want: 50},
		{name: "smallest unit", input: "0.01", want: 1},
		{name: "large amount", input: "999999999.99", want: 99999999999},
		{name: "non-numeric", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "zero with decimals", input: "0.00", wantErr: true},
		{name: "negative", input: "-5.00", wantErr: true},
		{name: "three decimals", input: "1.234", wantErr: true},
		{name: "sub-cent", input: "0.001", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCents(tc.input)

			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCentsString(t *testing.T) {
	assert.Equal(t, "0.00", Cents(0).String())
	assert.Equal(t, "0.01", Cents(1).String())
	assert.Equal(t, "100.00", Cents(10000).String())
	assert.Equal(t, "12.34", Cents(1234).String())
}
