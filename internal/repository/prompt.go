package repository

import (
	"fmt"
	"strings"
)

// BuildDailyReportPrompt renders the analysis instruction for one batch of
// articles from a single source on a single day. The model must answer in a
// strict key=value format so the response survives machine parsing.
func BuildDailyReportPrompt(source, analysisDate string, articles []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a media analyst. Below are %d news article summaries published by %q on %s.\n\n",
		len(articles), source, analysisDate)

	b.WriteString("Articles:\n")
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}

	b.WriteString(`
Analyze the full set of articles and report:
1. The dominant narrative themes (up to 5), each with its share of coverage in percent and example headlines.
2. The overall sentiment split across positive, negative and neutral, in percent summing to 100.
3. The political bias on a scale from -5 (far left) to +5 (far right), with a leaning label and supporting evidence.
4. The values the coverage promotes (up to 3), each with example headlines.

Rules:
- Respond ONLY with key=value lines, one per line, no other text.
- Use the exact keys shown in the example below.
- Omit theme and value slots you cannot fill.
- All percentages and scores are plain numbers without units.
- Confidence values are between 0 and 1.

Example response:
main_narrative_theme_1=Economic policy
theme_main_coverage_1=45
theme_examples_1=Central bank holds rates; Inflation eases to 3 percent
main_narrative_theme_2=Foreign affairs
theme_main_coverage_2=30
theme_examples_2=Summit ends without agreement
narrative_confidence=0.8
sentiment_positive_percentage=20
sentiment_negative_percentage=50
sentiment_neutral_percentage=30
sentiment_confidence=0.75
bias_political_score=-1.5
bias_political_leaning=center-left
bias_supporting_evidence=Framing favors government spending programs
bias_confidence=0.6
values_promoted_1=Accountability
values_examples_1=Minister questioned over contract awards
values_confidence=0.7
`)

	return b.String()
}
