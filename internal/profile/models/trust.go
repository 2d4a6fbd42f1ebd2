package models

import "slices"

// BaseTrustScore is the score of a personal profile with no factors.
const BaseTrustScore = 50

const (
	MinTrustScore = 0
	MaxTrustScore = 100
)

// TrustScore is a 0-100 score derived from named factors.
type TrustScore struct {
	Score   int      `json:"score"`
	Factors []Factor `json:"factors"`
}

// Factor is one named, signed contribution to a trust score.
type Factor struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

func NewTrustScore() TrustScore {
	return TrustScore{Score: BaseTrustScore, Factors: []Factor{}}
}

func (t TrustScore) Clone() TrustScore {
	c := t
	c.Factors = slices.Clone(t.Factors)
	if c.Factors == nil {
		c.Factors = []Factor{}
	}
	return c
}

// Factor returns the factor of the given type.
func (t TrustScore) Factor(factorType string) (Factor, bool) {
	for _, f := range t.Factors {
		if f.Type == factorType {
			return f, true
		}
	}
	return Factor{}, false
}
