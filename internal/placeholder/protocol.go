package placeholder

// Markers of the solution-page submission passage in WebMall instructions.
const (
	SolutionPageAnchor   = "Solution page:"
	SolutionPageTerminal = `Do not forget to press the "Submit Final Result" button in all cases!`

	// DirectReportProtocol tells the agent to report results in its final
	// message instead of submitting them on the solution page.
	DirectReportProtocol = "If a store page does not load, refresh up to three times. " +
		"Return only the final result URLs (separated by ###). " +
		"If not URLs, return the values. If nothing to return, answer 'Done'."
)

// DirectReportRewrite returns the rewrite that swaps the solution-page
// passage for DirectReportProtocol.
func DirectReportRewrite() *ProtocolRewrite {
	return &ProtocolRewrite{
		Anchor:      SolutionPageAnchor,
		Terminal:    SolutionPageTerminal,
		Replacement: DirectReportProtocol,
	}
}
