package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProductNames(t *testing.T) {
	raw := `1. Olive Oil, 8.99
2. Sea Salt, 2.50
3. Garlic Press, 12.00`

	assert.Equal(t,
		[]string{"Olive Oil", "Sea Salt", "Garlic Press"},
		ParseProductNames(raw))
}

func TestParseProductNamesSkipsNoise(t *testing.T) {
	raw := "\n  1. Honey, 5.00  \n\n   \n2. Lemon\n"

	assert.Equal(t, []string{"Honey", "Lemon"}, ParseProductNames(raw))
}

func TestParseProductNamesWithoutNumbering(t *testing.T) {
	assert.Equal(t, []string{"Butter"}, ParseProductNames("Butter, 3.20"))
}

func TestParseProductNamesEmpty(t *testing.T) {
	assert.Empty(t, ParseProductNames(""))
	assert.Empty(t, ParseProductNames("   \n  \n"))
}

func TestBuildPromptMentionsExclusions(t *testing.T) {
	p := buildPrompt("Coconut Oil", 7.99, []string{"Olive Oil", "Butter"})
	assert.Contains(t, p, "Coconut Oil")
	assert.Contains(t, p, "Do not include these products")
	assert.Contains(t, p, "Olive Oil, Butter")

	p = buildPrompt("Coconut Oil", 7.99, nil)
	assert.NotContains(t, p, "Do not include these products")
}
