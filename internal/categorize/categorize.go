// Package categorize assigns categories to transactions from a text predictor.
package categorize

import (
	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

// Predictor guesses a category label for a description. Labels are category
// ids or names; confidence is in [0,1].
type Predictor interface {
	Predict(text string) (label string, confidence float64)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(text string) (string, float64)

func (f PredictorFunc) Predict(text string) (string, float64) {
	return f(text)
}

// Categorizer is stateless apart from its predictor and may be shared.
type Categorizer struct {
	predictor Predictor
	threshold float64
}

func New(p Predictor, threshold float64) *Categorizer {
	return &Categorizer{predictor: p, threshold: threshold}
}

// Categorize sets CategoryID on every transaction that has none. Predictions
// below the threshold, or naming a category outside set, get the fallback.
// It returns the number of transactions it categorized.
func (c *Categorizer) Categorize(txs []*transaction.Transaction, set *category.Set) int {
	assigned := 0

	for _, tx := range txs {
		if tx.Categorized() {
			continue
		}

		id, confidence := c.choose(tx.Description, set)
		tx.CategoryID = &id
		tx.Confidence = &confidence
		assigned++
	}

	return assigned
}

func (c *Categorizer) choose(description string, set *category.Set) (category.ID, float64) {
	label, confidence := c.predictor.Predict(description)

	if confidence >= c.threshold {
		if id, ok := set.Resolve(label); ok {
			return id, confidence
		}
	}

	return set.Fallback(), confidence
}
