package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCCVPoints(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		want  int
	}{
		{"no terms", nil, 0},
		{"very strong plus strong", []string{"OVS1", "OS1"}, 12},
		{"downgraded very strong", []string{"OVS1_Moderate", "OS1"}, 6},
		{"mixed directions", []string{"OVS1", "OS1", "OM1", "SBVS1", "SBP2"}, 5},
		{"downgraded benign very strong", []string{"SBVS1_Supporting", "SBS1_Supporting"}, -2},
		{"benign supporting stack", []string{"SBP1_Supporting", "SBP2", "SBS1"}, -6},
		{"upgraded supporting", []string{"OP1_Strong", "OM1"}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CCVPoints(tt.terms))
		})
	}
}

func TestCCV(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		want  string
	}{
		{"no terms", nil, ""},
		{"oncogenic at twelve", []string{"OVS1", "OS1"}, Oncogenic},
		{"oncogenic at ten", []string{"OVS1", "OM1"}, Oncogenic},
		{"likely oncogenic at six", []string{"OVS1_Moderate", "OS1"}, LikelyOncogenic},
		{"uncertain at five", []string{"OVS1", "OS1", "OM1", "SBVS1", "SBP2"}, UncertainSignificance},
		{"uncertain at zero", []string{"OP1", "SBP1"}, UncertainSignificance},
		{"likely benign at minus two", []string{"SBVS1_Supporting", "SBS1_Supporting"}, LikelyBenign},
		{"likely benign at minus six", []string{"SBP1", "SBP2", "SBS1"}, LikelyBenign},
		{"benign at minus eight", []string{"SBVS1"}, Benign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CCV(tt.terms))
		})
	}
}

func TestCCVTemperature(t *testing.T) {
	t.Run("no terms", func(t *testing.T) {
		assert.Nil(t, CCVTemperature(nil))
	})

	t.Run("hot vus", func(t *testing.T) {
		temp := CCVTemperature([]string{"OVS1", "OS1", "OM1", "SBVS1", "SBP2"})
		require.NotNil(t, temp)
		assert.Equal(t, 5, temp.Points)
		assert.Equal(t, "Hot", temp.Label)
		assert.Equal(t, "VUS", temp.Classification)
	})

	t.Run("oncogenic", func(t *testing.T) {
		temp := CCVTemperature([]string{"OVS1", "OS1"})
		require.NotNil(t, temp)
		assert.Equal(t, 12, temp.Points)
		assert.Equal(t, "Oncogenic", temp.Label)
		assert.Equal(t, "O", temp.Classification)
	})

	t.Run("likely benign", func(t *testing.T) {
		temp := CCVTemperature([]string{"SBVS1_Supporting", "SBS1_Supporting"})
		require.NotNil(t, temp)
		assert.Equal(t, -2, temp.Points)
		assert.Equal(t, "LB", temp.Classification)
	})
}

func TestCCVConflicts(t *testing.T) {
	t.Run("no conflicts", func(t *testing.T) {
		assert.Empty(t, CCVConflicts([]string{"OVS1", "OS2"}))
	})

	t.Run("hotspot pair", func(t *testing.T) {
		conflicts := CCVConflicts([]string{"OS3", "OS1"})
		require.Len(t, conflicts, 1)
		assert.Contains(t, conflicts[0], "OS3 and OS1")
	})
}
