package lead

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestScore(t *testing.T) {
	weights := DefaultScoreWeights()
	budget := 250000.0

	tests := []struct {
		name string
		lead Lead
		want int
	}{
		{
			name: "empty lead",
			lead: Lead{},
			want: 0,
		},
		{
			name: "name and phone",
			lead: Lead{Name: "Dana", Phone: "15550100200"},
			want: 25,
		},
		{
			name: "name phone and email",
			lead: Lead{Name: "Dana", Phone: "15550100200", Email: "dana@example.com"},
			want: 35,
		},
		{
			name: "short message scores nothing",
			lead: Lead{Message: "call me"},
			want: 0,
		},
		{
			name: "message over 50 chars",
			lead: Lead{Message: strings.Repeat("a", 60)},
			want: 10,
		},
		{
			name: "message over 100 chars stacks",
			lead: Lead{Message: strings.Repeat("a", 120)},
			want: 15,
		},
		{
			name: "full budget range",
			lead: Lead{BudgetMin: &budget, BudgetMax: &budget},
			want: 25,
		},
		{
			name: "budget min only",
			lead: Lead{BudgetMin: &budget},
			want: 20,
		},
		{
			name: "city and state",
			lead: Lead{PreferredCity: "Austin", PreferredState: "TX"},
			want: 20,
		},
		{
			name: "city only",
			lead: Lead{PreferredCity: "Austin"},
			want: 15,
		},
		{
			name: "interests and tags",
			lead: Lead{
				PropertyInterests: datatypes.JSON([]byte(`[1,2,3]`)),
				Tags:              datatypes.JSON([]byte(`["urgent","vip"]`)),
			},
			want: 19,
		},
		{
			name: "everything clamps at 100",
			lead: Lead{
				Name:              "Dana",
				Phone:             "15550100200",
				Email:             "dana@example.com",
				Message:           strings.Repeat("a", 120),
				BudgetMin:         &budget,
				BudgetMax:         &budget,
				PreferredCity:     "Austin",
				PreferredState:    "TX",
				PropertyInterests: datatypes.JSON([]byte(`[1,2,3,4,5]`)),
				Tags:              datatypes.JSON([]byte(`["a","b","c","d","e"]`)),
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, weights.Score(&tt.lead))
		})
	}
}

func TestScore_NeverNegativeOrOver100(t *testing.T) {
	assert.Equal(t, 0, clampScore(-5))
	assert.Equal(t, 100, clampScore(250))
	assert.Equal(t, 42, clampScore(42))
}
