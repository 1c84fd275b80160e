package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitsScale(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"24", true},
		{"23.9999", true},
		{"23.99990", true},
		{"-1.5", true},
		{"23.99999", false},
		{"0.00001", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FitsScale(MustMoney(tt.in)))
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.True(t, LineTotal(3, MustMoney("8.25")).Equal(MustMoney("24.75")))
}
