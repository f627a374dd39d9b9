package summary

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spachava753/webmall-eval/internal/models"
)

// Print writes a human readable digest of a study summary.
func Print(w io.Writer, s models.StudySummary) {
	fmt.Fprintf(w, "Study %s (%s)\n", s.StudyID, s.Agent)
	if s.Cancelled {
		fmt.Fprintln(w, "Study was cancelled, summary covers completed tasks only")
	}
	printSummary(w, "", s.Overall)

	for _, category := range slices.Sorted(maps.Keys(s.ByCategory)) {
		fmt.Fprintf(w, "\n%s:\n", category)
		printSummary(w, "  ", s.ByCategory[category].Summary)
	}
}

func printSummary(w io.Writer, indent string, s models.Summary) {
	fmt.Fprintf(w, "%sTasks: %d\n", indent, s.NumRuns)
	fmt.Fprintf(w, "%sTask completion rate: %.2f%%\n", indent, s.AvgTaskCompletionRate*100)
	fmt.Fprintf(w, "%sAverage precision: %.2f%%\n", indent, s.AvgPrecision*100)
	fmt.Fprintf(w, "%sAverage recall: %.2f%%\n", indent, s.AvgRecall*100)
	fmt.Fprintf(w, "%sAverage F1 score: %.2f%%\n", indent, s.AvgF1*100)
	fmt.Fprintf(w, "%sAverage steps: %.1f\n", indent, s.AvgSteps)
	fmt.Fprintf(w, "%sAverage time: %.1fs\n", indent, s.AvgTimeElapsed)
	fmt.Fprintf(w, "%sTerminated rate: %.2f%%\n", indent, s.TerminatedRate*100)
	fmt.Fprintf(w, "%sTruncated rate: %.2f%%\n", indent, s.TruncatedRate*100)
	if s.TasksWithUsage > 0 {
		fmt.Fprintf(w, "%sTotal tokens: %d (avg %.0f per task)\n", indent, s.TotalTokens, s.AvgTokensPerTask)
	}
	if s.TasksWithCost > 0 {
		fmt.Fprintf(w, "%sTotal cost: $%.4f (avg $%.4f per task)\n", indent, s.TotalCost, s.AvgCostPerTask)
	}
}
