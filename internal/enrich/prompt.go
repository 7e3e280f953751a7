package enrich

import (
	"encoding/json"
	"fmt"
	"strings"
)

// buildAnalysisPrompt builds the theme-analysis prompt for one book.
func buildAnalysisPrompt(title, author string) string {
	return fmt.Sprintf(`You are a literary analyst. Identify the major themes of the book below and pick short representative quotes for each.

Book: %s
Author: %s

Rules:
- At most 5 themes, ordered by importance.
- At most 3 quotes per theme. Quotes should be short (one or two sentences).
- Theme names are short noun phrases, e.g. "Memory", "Coming of Age".
- If you do not know the book, return an empty themes list.

Output format: Return a JSON object of this exact shape:
{"themes": [{"theme": "Memory", "quotes": ["first quote", "second quote"]}]}

Return ONLY the JSON object, no other text.`, title, author)
}

// parseAnalysisResponse parses the LLM response into an Analysis, clamping
// theme and quote counts to the contract.
func parseAnalysisResponse(response string) (Analysis, error) {
	text := strings.TrimSpace(response)

	// Handle markdown code blocks
	if strings.HasPrefix(text, "```") {
		text = extractFromCodeBlock(text)
	}

	var result Analysis
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return Analysis{}, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}

	if len(result.Themes) > 5 {
		result.Themes = result.Themes[:5]
	}
	for i := range result.Themes {
		if len(result.Themes[i].Quotes) > 3 {
			result.Themes[i].Quotes = result.Themes[i].Quotes[:3]
		}
	}

	return result, nil
}

// extractFromCodeBlock extracts content from a markdown code block.
func extractFromCodeBlock(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}

	// Remove first line (```json or ```)
	start := 1
	// Remove last line if it's ```
	end := len(lines)
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		end = len(lines) - 1
	}

	return strings.Join(lines[start:end], "\n")
}
