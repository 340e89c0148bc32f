// Package classifier holds the naive Bayes model that maps transaction
// descriptions to category labels.
package classifier

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/jbrukh/bayesian"
)

var ErrClassifierUnavailable = errors.New("classifier unavailable")

// Sample is one labelled training description. Label is a category id or name.
type Sample struct {
	Text  string
	Label string
}

// Model is immutable after construction and safe for concurrent Predict calls.
type Model struct {
	cl *bayesian.Classifier
}

// Load reads a model artifact written by Save.
func Load(path string) (*Model, error) {
	cl, err := bayesian.NewClassifierFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrClassifierUnavailable, path, err)
	}

	if len(cl.Classes) < 2 {
		return nil, fmt.Errorf("%w: %s has %d labels", ErrClassifierUnavailable, path, len(cl.Classes))
	}

	return &Model{cl: cl}, nil
}

// Train builds a model from labelled samples. Samples whose text yields no
// tokens are ignored. At least two distinct labels are required.
func Train(samples []Sample) (*Model, error) {
	var labels []bayesian.Class

	for _, s := range samples {
		label := bayesian.Class(strings.TrimSpace(s.Label))
		if label != "" && !slices.Contains(labels, label) {
			labels = append(labels, label)
		}
	}

	if len(labels) < 2 {
		return nil, fmt.Errorf("train classifier: need at least 2 labels, got %d", len(labels))
	}

	cl := bayesian.NewClassifier(labels...)

	learned := 0

	for _, s := range samples {
		tokens := Tokenize(s.Text)
		label := strings.TrimSpace(s.Label)

		if len(tokens) == 0 || label == "" {
			continue
		}

		cl.Learn(tokens, bayesian.Class(label))
		learned++
	}

	if learned == 0 {
		return nil, errors.New("train classifier: no usable samples")
	}

	return &Model{cl: cl}, nil
}

func (m *Model) Save(path string) error {
	if err := m.cl.WriteToFile(path); err != nil {
		return fmt.Errorf("save classifier to %s: %w", path, err)
	}

	return nil
}

// Predict returns the most probable label and its posterior probability.
// Text without usable tokens yields an empty label and zero confidence.
func (m *Model) Predict(text string) (string, float64) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return "", 0
	}

	scores, best, _ := m.cl.ProbScores(tokens)
	if best < 0 || best >= len(scores) {
		return "", 0
	}

	return string(m.cl.Classes[best]), scores[best]
}

func (m *Model) Labels() []string {
	out := make([]string, len(m.cl.Classes))
	for i, c := range m.cl.Classes {
		out[i] = string(c)
	}

	return out
}

// Tokenize lower-cases text and splits it on anything that is not a letter or
// digit. Tokens made only of digits (card numbers, references) are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]

	for _, f := range fields {
		if strings.IndexFunc(f, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
			tokens = append(tokens, f)
		}
	}

	return tokens
}
