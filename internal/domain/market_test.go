package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalCategory(t *testing.T) {
	cases := []struct {
		raw  string
		want Category
	}{
		{"Politics", CategoryPolitics},
		{"Geopolitics", CategoryPolitics},
		{"Crypto", CategoryCrypto},
		{"Digital Assets", CategoryCrypto},
		{"NFL", CategorySports},
		{"Economics", CategoryBusiness},
		{"Fed", CategoryBusiness},
		{"Climate and Weather", CategoryScience},
		{"Pop Culture", CategoryPopCulture},
		{"pop-culture", CategoryPopCulture},
		{"Something Unheard Of", CategoryOther},
		{"", CategoryOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanonicalCategory(tc.raw), tc.raw)
	}
}

func TestNormalizeCategoryKeyStripsSeparators(t *testing.T) {
	assert.Equal(t, "popculture", normalizeCategoryKey("Pop Culture"))
	assert.Equal(t, "sciencetech", normalizeCategoryKey("Science & Tech"))
	assert.Equal(t, "nfl2026", normalizeCategoryKey("NFL-2026"))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeLoose, ParseMode("loose"))
	assert.Equal(t, ModeStrict, ParseMode("strict"))
	assert.Equal(t, ModeStrict, ParseMode(""))
	assert.Equal(t, ModeStrict, ParseMode("garbage"))
}

func TestScanDegraded(t *testing.T) {
	assert.False(t, Scan{}.Degraded())
	assert.True(t, Scan{FailedSources: []Source{SourceKalshi}}.Degraded())
}

func TestCombinedVolume(t *testing.T) {
	o := ArbitrageOpportunity{
		Market1: Market{Volume: 1200},
		Market2: Market{Volume: 800},
	}
	assert.Equal(t, 2000.0, o.CombinedVolume())
}
