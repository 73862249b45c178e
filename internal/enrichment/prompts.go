package enrichment

import (
	"fmt"
	"strings"
)

func capabilitiesPrompt(text string) string {
	return fmt.Sprintf(`Analyze supplier capabilities: "%s".
Return JSON ONLY: {"capability_summary": "concise summary (1-2 sentences)", "main_categories": ["cat1", "cat2", "cat3"]}. Respond in English.`, text)
}

func rfqPrompt(text string) string {
	return fmt.Sprintf(`Analyze RFQ: "%s".
Return JSON ONLY: {"service_product_type": "type", "implied_urgency": "High/Medium/Low/Not specified", "key_specifications": ["spec1", "spec2"]}.
Urgency hints: High (ASAP, urgent), Medium (soon), Low (budgetary). Respond in English.`, text)
}

func insightsPrompt(summary string) string {
	return fmt.Sprintf(`Based on the following data summary, identify 2-3 key strategic insights.
For each insight, provide a short title and a brief explanation (1-2 sentences).
Focus on potential opportunities, risks, supply/demand imbalances, or performance highlights/lowlights.
Return ONLY a valid JSON list of objects. Each object must have "insight_id" (e.g., "INS001"), "insight_title", and "insight_explanation".
Ensure the entire response is valid JSON.
Respond strictly in English.

Data Summary:
%s`, summary)
}

func tasksPrompt(insights []Insight) string {
	lines := make([]string, len(insights))
	for i, in := range insights {
		lines[i] = fmt.Sprintf("- %s: %s", orNA(in.Title), orNA(in.Explanation))
	}
	return fmt.Sprintf(`Based on the following strategic insights, suggest 2-3 actionable tasks.
For each task, provide a brief description and assign an importance level from 1 (Low) to 5 (Very High).
Return ONLY a valid JSON list of objects. Each object must have "task_id" (e.g., "TASK001"), "task_description", and "task_importance" (integer 1-5).
Ensure the entire response is valid JSON.
Respond strictly in English.

Strategic Insights:
%s`, strings.Join(lines, "\n"))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
