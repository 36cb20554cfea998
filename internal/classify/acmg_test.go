package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestACMG(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		want  string
	}{
		{"no terms", nil, ""},
		{"BA1 stand-alone", []string{"BA1"}, Benign},
		{"BA1 beats pathogenic evidence", []string{"BA1", "PVS1", "PS1"}, Benign},
		{"PVS1 plus one strong", []string{"PVS1", "PS1"}, Pathogenic},
		{"PVS1 plus two moderate", []string{"PVS1", "PM1", "PM2"}, Pathogenic},
		{"PVS1 plus moderate and supporting", []string{"PVS1", "PM1", "PP1"}, Pathogenic},
		{"PVS1 plus two supporting", []string{"PVS1", "PP1", "PP2"}, Pathogenic},
		{"two strong", []string{"PS1", "PS2"}, Pathogenic},
		{"one strong plus three moderate", []string{"PS1", "PM1", "PM2", "PM3"}, Pathogenic},
		{"PVS1 plus one moderate", []string{"PVS1", "PM1"}, LikelyPathogenic},
		{"one strong plus one moderate", []string{"PS1", "PM1"}, LikelyPathogenic},
		{"one strong plus two supporting", []string{"PS1", "PP1", "PP2"}, LikelyPathogenic},
		{"three moderate", []string{"PM1", "PM2", "PM3"}, LikelyPathogenic},
		{"two moderate plus two supporting", []string{"PM1", "PM2", "PP1", "PP2"}, LikelyPathogenic},
		{"one moderate plus four supporting", []string{"PM1", "PP1", "PP2", "PP3", "PP4"}, LikelyPathogenic},
		{"two benign strong", []string{"BS1", "BS2"}, Benign},
		{"benign strong plus supporting", []string{"BS1", "BP1"}, LikelyBenign},
		{"two benign supporting", []string{"BP1", "BP2"}, LikelyBenign},
		{"single supporting", []string{"PP1"}, UncertainSignificance},
		{"conflicting evidence", []string{"PVS1", "PS1", "BS1", "BS2"}, UncertainSignificance},
		{"upgraded supporting counts as strong", []string{"PP1_Strong", "PS1"}, Pathogenic},
		{"downgraded very strong counts as moderate", []string{"PVS1_Moderate", "PM1", "PM2"}, LikelyPathogenic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ACMG(tt.terms))
		})
	}
}

func TestACMGDeterministic(t *testing.T) {
	terms := []string{"PVS1", "PM1", "BP4"}
	first := ACMG(terms)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ACMG(terms))
	}
}

func TestACMGTemperature(t *testing.T) {
	t.Run("no terms", func(t *testing.T) {
		assert.Nil(t, ACMGTemperature(nil))
	})

	t.Run("pathogenic points", func(t *testing.T) {
		temp := ACMGTemperature([]string{"PVS1", "PS1"})
		require.NotNil(t, temp)
		assert.Equal(t, 12, temp.Points)
		assert.Equal(t, "Pathogenic", temp.Label)
		assert.Equal(t, "P", temp.Classification)
	})

	t.Run("BA1 forces minus eight", func(t *testing.T) {
		temp := ACMGTemperature([]string{"BA1", "PVS1"})
		require.NotNil(t, temp)
		assert.Equal(t, -8, temp.Points)
		assert.Equal(t, "B", temp.Classification)
	})

	t.Run("tepid vus", func(t *testing.T) {
		temp := ACMGTemperature([]string{"PM1", "PP1"})
		require.NotNil(t, temp)
		assert.Equal(t, 3, temp.Points)
		assert.Equal(t, "Tepid", temp.Label)
		assert.Equal(t, "VUS", temp.Classification)
	})

	t.Run("ice cold vus", func(t *testing.T) {
		temp := ACMGTemperature([]string{"PP1", "BP1"})
		require.NotNil(t, temp)
		assert.Equal(t, 0, temp.Points)
		assert.Equal(t, "Ice cold", temp.Label)
	})

	t.Run("likely pathogenic points", func(t *testing.T) {
		temp := ACMGTemperature([]string{"PM1", "PM2", "PP1", "PP2"})
		require.NotNil(t, temp)
		assert.Equal(t, 6, temp.Points)
		assert.Equal(t, "LP", temp.Classification)
	})
}

func TestACMGConflicts(t *testing.T) {
	t.Run("no conflicts", func(t *testing.T) {
		assert.Empty(t, ACMGConflicts([]string{"PVS1", "PS1"}))
	})

	t.Run("single pair", func(t *testing.T) {
		conflicts := ACMGConflicts([]string{"PVS1", "PM4", "PP3"})
		require.Len(t, conflicts, 1)
		assert.Contains(t, conflicts[0], "PVS1 and PM4")
	})

	t.Run("multiple pairs", func(t *testing.T) {
		conflicts := ACMGConflicts([]string{"PVS1", "PM1", "PP2"})
		assert.Len(t, conflicts, 3)
	})
}
