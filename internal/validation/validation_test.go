package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placar/internal/domain"
	apperrors "placar/pkg/errors"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		want   int
		wantOK bool
	}{
		{name: "zero", input: 0, want: 0, wantOK: true},
		{name: "positive int", input: 3, want: 3, wantOK: true},
		{name: "float integral", input: float64(4), want: 4, wantOK: true},
		{name: "json number", input: json.Number("7"), want: 7, wantOK: true},
		{name: "json number with trailing zero", input: json.Number("2.0"), want: 2, wantOK: true},
		{name: "numeric string", input: " 5 ", want: 5, wantOK: true},
		{name: "negative", input: -1, wantOK: false},
		{name: "fraction", input: 1.5, wantOK: false},
		{name: "fractional json number", input: json.Number("0.5"), wantOK: false},
		{name: "nil", input: nil, wantOK: false},
		{name: "blank string", input: "  ", wantOK: false},
		{name: "word", input: "three", wantOK: false},
		{name: "NaN string", input: "NaN", wantOK: false},
		{name: "bool", input: true, wantOK: false},
		{name: "too large", input: float64(1 << 40), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseScore(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.wantOK, ValidateScore(tt.input))
		})
	}
}

func TestValidatePair(t *testing.T) {
	assert.NoError(t, ValidatePair("a", "b"))

	for _, pair := range [][2]string{{"", "b"}, {"a", ""}, {"a", "a"}, {"", ""}} {
		err := ValidatePair(pair[0], pair[1])
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
		assert.Equal(t, MsgSelectTwoPlayers, apperrors.PublicMessage(err))
	}
}

func TestNormalizeScorers(t *testing.T) {
	raw := []domain.RawScorer{
		{Name: "  Xavi ", Goals: json.Number("2"), OwnerID: "home"},
		{ScorerName: "Yaya", Goals: "1", PlayerID: "away"},
		{Name: "", Goals: 1, OwnerID: "home"},
		{Name: "Zero", Goals: 0, OwnerID: "home"},
		{Name: "Half", Goals: 1.5, OwnerID: "home"},
		{Name: "Stranger", Goals: 1, OwnerID: "someone-else"},
		{Name: "Orphan", Goals: 1},
		{Name: "Both", Goals: 1, OwnerID: "away", PlayerID: "home"},
	}

	got := NormalizeScorers(raw, "home", "away")

	assert.Equal(t, []domain.Scorer{
		{Name: "Xavi", Goals: 2, OwnerID: "home"},
		{Name: "Yaya", Goals: 1, OwnerID: "away"},
		{Name: "Both", Goals: 1, OwnerID: "away"},
	}, got)
}

func TestNormalizeScorers_EmptyInput(t *testing.T) {
	got := NormalizeScorers(nil, "home", "away")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestValidateScorerSums(t *testing.T) {
	scorers := []domain.Scorer{
		{Name: "X", Goals: 2, OwnerID: "home"},
		{Name: "Y", Goals: 1, OwnerID: "home"},
		{Name: "Z", Goals: 1, OwnerID: "away"},
	}

	tests := []struct {
		name      string
		homeScore int
		awayScore int
		wantErr   bool
	}{
		{name: "exact totals", homeScore: 3, awayScore: 1},
		{name: "fewer scorers than goals", homeScore: 5, awayScore: 2},
		{name: "home exceeds", homeScore: 2, awayScore: 1, wantErr: true},
		{name: "away exceeds", homeScore: 3, awayScore: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScorerSums("home", "away", tt.homeScore, tt.awayScore, scorers)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
			assert.Equal(t, MsgScorersExceed, apperrors.PublicMessage(err))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	name, err := NormalizeName("  Ronaldinho  ")
	require.NoError(t, err)
	assert.Equal(t, "Ronaldinho", name)

	_, err = NormalizeName("   ")
	require.Error(t, err)
	assert.Equal(t, MsgNameRequired, apperrors.PublicMessage(err))
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("joão", "JOÃO"))
	assert.True(t, SameName(" Pelé", "pelé "))
	assert.False(t, SameName("Zico", "Zeca"))
}

func TestNormalizeSubmitter(t *testing.T) {
	assert.Equal(t, "Carlos", NormalizeSubmitter("  Carlos "))
	assert.Equal(t, domain.DefaultSubmitter, NormalizeSubmitter(""))
	assert.Equal(t, domain.DefaultSubmitter, NormalizeSubmitter("   "))
}

func TestNormalizeEvidence(t *testing.T) {
	assert.Nil(t, NormalizeEvidence(nil))
	assert.Nil(t, NormalizeEvidence(&domain.Evidence{Name: "photo.png"}))

	got := NormalizeEvidence(&domain.Evidence{Name: "photo.png", Data: "data:image/png;base64,AAAA"})
	require.NotNil(t, got)
	assert.Equal(t, "photo.png", got.Name)
}
