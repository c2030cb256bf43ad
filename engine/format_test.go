package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	cases := map[float64]string{
		0:          "$0",
		12.4:       "$12",
		1234.5:     "$1,235",
		1234567.49: "$1,234,567",
		-980:       "-$980",
		-12345.6:   "-$12,346",
		-0.2:       "$0",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatUSD(in), "FormatUSD(%v)", in)
	}
}

func TestFormatSignedUSD(t *testing.T) {
	assert.Equal(t, "+$40", FormatSignedUSD(40))
	assert.Equal(t, "+$0", FormatSignedUSD(0))
	assert.Equal(t, "-$2,830", FormatSignedUSD(-2830.43))
}

func TestFormatPct(t *testing.T) {
	two := 2.0
	neg := -0.1234
	assert.Equal(t, "200.0%", FormatPct(&two))
	assert.Equal(t, "-12.3%", FormatPct(&neg))
	assert.Equal(t, "n/a", FormatPct(nil))
}

func TestFormatNumbers(t *testing.T) {
	assert.Equal(t, "2,880", FormatInt(2880))
	assert.Equal(t, "1,234.50", FormatCost(1234.5))
	assert.Equal(t, "-0.25", FormatCost(-0.25))
}
