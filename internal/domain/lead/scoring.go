package lead

// ScoreWeights holds the additive scoring signals. Weights live in a
// config struct so tests and deployments can tune them without touching
// the scoring code.
type ScoreWeights struct {
	HasName          int
	HasPhone         int
	HasEmail         int
	MessageOver50    int
	MessageOver100   int // additional to MessageOver50, not exclusive
	HasBudget        int
	BudgetMinSet     int
	BudgetMaxSet     int
	HasLocation      int
	LocationCitySet  int
	LocationStateSet int
	PerInterest      int
	PerTag           int
}

func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		HasName:          10,
		HasPhone:         15,
		HasEmail:         10,
		MessageOver50:    10,
		MessageOver100:   5,
		HasBudget:        15,
		BudgetMinSet:     5,
		BudgetMaxSet:     5,
		HasLocation:      10,
		LocationCitySet:  5,
		LocationStateSet: 5,
		PerInterest:      5,
		PerTag:           2,
	}
}

// Score computes the lead score from the lead's own fields. Pure and
// deterministic; called once at creation time.
func (w ScoreWeights) Score(l *Lead) int {
	score := 0

	if l.Name != "" {
		score += w.HasName
	}
	if l.Phone != "" {
		score += w.HasPhone
	}
	if l.Email != "" {
		score += w.HasEmail
	}

	if len(l.Message) > 50 {
		score += w.MessageOver50
	}
	if len(l.Message) > 100 {
		score += w.MessageOver100
	}

	if l.BudgetMin != nil || l.BudgetMax != nil {
		score += w.HasBudget
		if l.BudgetMin != nil && *l.BudgetMin > 0 {
			score += w.BudgetMinSet
		}
		if l.BudgetMax != nil && *l.BudgetMax > 0 {
			score += w.BudgetMaxSet
		}
	}

	if l.PreferredCity != "" || l.PreferredState != "" {
		score += w.HasLocation
		if l.PreferredCity != "" {
			score += w.LocationCitySet
		}
		if l.PreferredState != "" {
			score += w.LocationStateSet
		}
	}

	score += len(l.InterestList()) * w.PerInterest
	score += len(l.TagList()) * w.PerTag

	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
