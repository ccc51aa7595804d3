package services_test

import (
	"testing"

	"discounts/services"

	"github.com/stretchr/testify/assert"
)

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name       string
		original   string
		discounted string
		want       int
	}{
		{"forty percent", "1000", "600", 40},
		{"no discount", "100", "100", 0},
		{"markup is negative", "100", "120", -20},
		{"zero original", "0", "50", 0},
		{"negative original", "-5", "1", 0},
		{"free deal", "80", "0", 100},
		{"half rounds to even down", "8", "7", 12},
		{"half rounds to even up", "8", "5", 38},
		{"half below one rounds to zero", "200", "199", 0},
		{"one and a half rounds to two", "200", "197", 2},
		{"cents", "19.99", "14.99", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.DiscountPercent(dec(tt.original), dec(tt.discounted)))
		})
	}
}

func TestDiscountRate(t *testing.T) {
	assert.InDelta(t, 33.3333, services.DiscountRate(dec("3"), dec("2")), 0.0001)
	assert.InDelta(t, 12.5, services.DiscountRate(dec("8"), dec("7")), 1e-9)
	assert.InDelta(t, -20.0, services.DiscountRate(dec("100"), dec("120")), 1e-9)
	assert.Equal(t, 0.0, services.DiscountRate(dec("0"), dec("10")))
}
