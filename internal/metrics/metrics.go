// Package metrics scores an extracted answer set against the ground truth.
package metrics

import (
	"github.com/spachava753/webmall-eval/internal/answer"
	"github.com/spachava753/webmall-eval/internal/models"
)

// Compute returns task completion, precision, recall and F1 for two
// normalized sets. Two empty sets are a perfect match.
func Compute(expected, actual answer.Set) models.Metrics {
	if expected.Len() == 0 && actual.Len() == 0 {
		return models.Metrics{TaskCompletion: 1, Precision: 1, Recall: 1, F1: 1}
	}

	var m models.Metrics
	if expected.Equal(actual) {
		m.TaskCompletion = 1
	}

	hits := float64(expected.Intersect(actual).Len())
	if actual.Len() > 0 {
		m.Precision = hits / float64(actual.Len())
	}
	if expected.Len() > 0 {
		m.Recall = hits / float64(expected.Len())
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
