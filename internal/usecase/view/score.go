package view

// Weights are the fixed coefficients of the popularity score: a linear
// combination of raw engagement counters. They are tunable policy
// constants, not derived values; ranking across existing aggregates only
// shifts after their next refresh when weights change.
type Weights struct {
	Like    float64 `yaml:"like_weight"`
	Comment float64 `yaml:"comment_weight"`
	View    float64 `yaml:"view_weight"`
}

// DefaultWeights returns the default scoring policy.
func DefaultWeights() Weights {
	return Weights{Like: 0.8, Comment: 0.4, View: 0.1}
}

// Score computes the weighted popularity score from raw counters.
func (w Weights) Score(likes, comments, views int) float64 {
	return float64(likes)*w.Like + float64(comments)*w.Comment + float64(views)*w.View
}
