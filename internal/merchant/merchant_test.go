package merchant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testNormalizer() *Normalizer {
	return &Normalizer{
		Prefix: []Rule{
			{Match: "AMAZON", Name: "AMAZON"},
			{Match: "AMZN", Name: "AMAZON"},
		},
		Substring: []Rule{
			{Match: "TRADER JOES", Name: "TRADER JOES"},
			{Match: "JOES", Name: "JOES BAR"},
		},
		Overrides: map[string]string{
			"AMAZON": "Shopping",
		},
	}
}

func TestNormalizePrefix(t *testing.T) {
	n := testNormalizer()
	assert.Equal(t, "AMAZON", n.Normalize("Amazon.com*1X2Y3Z"))
	assert.Equal(t, "AMAZON", n.Normalize("AMZN Mktp US*9A8B7C"))
}

func TestNormalizeSubstring(t *testing.T) {
	n := testNormalizer()
	assert.Equal(t, "TRADER JOES", n.Normalize("TRADER JOES #123 SEATTLE"))
	assert.Equal(t, "TRADER JOES", n.Normalize("SQ *TRADER JOES #77"))
}

func TestNormalizeFirstMatchWins(t *testing.T) {
	// "TRADER JOES #1" also contains "JOES", but the earlier rule wins.
	n := testNormalizer()
	assert.Equal(t, "TRADER JOES", n.Normalize("trader joes #1"))
	assert.Equal(t, "JOES BAR", n.Normalize("JOES #2"))
}

func TestNormalizePrefixBeforeSubstring(t *testing.T) {
	n := &Normalizer{
		Prefix:    []Rule{{Match: "COSTCO", Name: "COSTCO WAREHOUSE"}},
		Substring: []Rule{{Match: "COSTCO", Name: "COSTCO GAS"}},
	}
	assert.Equal(t, "COSTCO WAREHOUSE", n.Normalize("COSTCO #512"))
	// Substring rules only apply when no prefix rule matched.
	assert.Equal(t, "COSTCO GAS", n.Normalize("GAS COSTCO #512"))
}

func TestNormalizeNoMatch(t *testing.T) {
	n := testNormalizer()
	assert.Equal(t, "LOCAL DELI", n.Normalize("Local Deli"))
}

func TestNormalizeDeterministic(t *testing.T) {
	n := testNormalizer()
	for i := 0; i < 10; i++ {
		assert.Equal(t, "TRADER JOES", n.Normalize("TRADER JOES #123"))
	}
}

func TestNormalizeEmptyRules(t *testing.T) {
	n := &Normalizer{}
	assert.Equal(t, "STARBUCKS #100", n.Normalize("Starbucks #100"))
}

func TestCategoryOverride(t *testing.T) {
	n := testNormalizer()
	assert.Equal(t, "Shopping", n.Category("AMAZON", "Misc", "Sale"))
}

func TestCategoryFallbacks(t *testing.T) {
	n := testNormalizer()
	assert.Equal(t, "Groceries", n.Category("TRADER JOES", "Groceries", "Sale"))
	assert.Equal(t, "Sale", n.Category("TRADER JOES", "", "Sale"))
	assert.Equal(t, NoCategory, n.Category("TRADER JOES", "", ""))
}
