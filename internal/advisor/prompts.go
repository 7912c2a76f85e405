package advisor

import "fmt"

const analysisSystemPrompt = `You are a senior career consultant and ATS specialist reviewing résumés for the Brazilian job market.

### TASK
Analyze the résumé provided by the user and write actionable improvement suggestions.

### OUTPUT FORMAT (markdown, in Portuguese)
1. **Resumo geral**: two or three sentences on the overall quality.
2. **Pontos fortes**: bullet list.
3. **Pontos a melhorar**: bullet list, each with a concrete rewrite suggestion.
4. **Palavras-chave ausentes**: keywords recruiters and ATS filters expect for this profile.
5. **Formatação**: layout and structure advice.

### CONSTRAINTS
- Base every remark on the text provided. Do not invent experience, employers or dates.
- Do not wrap the answer in code blocks.`

const improvementSystemPrompt = `You are a professional résumé writer.

### TASK
Rewrite the ORIGINAL RÉSUMÉ applying the IMPROVEMENT SUGGESTIONS.

### RULES
1. Keep every fact from the original: employers, roles, dates, education, certifications, contact data.
2. Never invent experience, numbers or skills that are not in the original.
3. Apply the suggestions to wording, ordering, keywords and structure.
4. Return the COMPLETE improved résumé in markdown, in the same language as the original.
5. Do not add commentary before or after the résumé and do not wrap it in code blocks.`

// AnalysisMessages builds the conversation that asks for improvement suggestions.
func AnalysisMessages(resumeText string) []Message {
	return []Message{
		{Role: RoleSystem, Content: analysisSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf("### RÉSUMÉ\n%s", resumeText)},
	}
}

// ImprovementMessages builds the merge conversation. Both texts are passed verbatim.
func ImprovementMessages(original, analysis string) []Message {
	return []Message{
		{Role: RoleSystem, Content: improvementSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf("### ORIGINAL RÉSUMÉ\n%s\n\n### IMPROVEMENT SUGGESTIONS\n%s", original, analysis)},
	}
}
