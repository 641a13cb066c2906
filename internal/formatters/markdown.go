package formatters

import (
	"fmt"
	"strings"

	"resumeqa/internal/types"
)

// ListMarkdownFormatter renders a resume listing as a bullet list.
type ListMarkdownFormatter struct{}

func (f *ListMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ResumeList)
	if !ok {
		return "", fmt.Errorf("expected ResumeList, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("# Resumes in `%s`\n\n", result.Container))
	if len(result.Names) == 0 {
		output.WriteString("_No files found in the specified container._\n")
	}
	for _, name := range result.Names {
		output.WriteString(fmt.Sprintf("- %s\n", name))
	}
	return output.String(), nil
}

func (f *ListMarkdownFormatter) SupportedType() string {
	return "ResumeList"
}

// ResumeMarkdownFormatter handles markdown formatting for parsed resumes
type ResumeMarkdownFormatter struct{}

func (f *ResumeMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ParsedResume)
	if !ok {
		return "", fmt.Errorf("expected ParsedResume, got %T", data)
	}
	return resumeMarkdown(result), nil
}

func (f *ResumeMarkdownFormatter) SupportedType() string {
	return "ParsedResume"
}

func resumeMarkdown(result types.ParsedResume) string {
	d := result.Data
	var output strings.Builder

	title := d.Contact.Name
	if title == "" {
		title = result.Name
	}
	output.WriteString(fmt.Sprintf("# %s\n\n", cell(title)))

	output.WriteString("## Contact Information\n\n")
	output.WriteString("| Field | Value |\n|---|---|\n")
	output.WriteString(fmt.Sprintf("| Name | %s |\n", cell(orDash(d.Contact.Name))))
	output.WriteString(fmt.Sprintf("| Email | %s |\n", cell(orDash(d.Contact.Email))))
	output.WriteString(fmt.Sprintf("| Phone Number | %s |\n", cell(orDash(d.Contact.PhoneNumber))))
	output.WriteString(fmt.Sprintf("| Portfolio/LinkedIn | %s |\n\n", cell(orDash(d.Contact.ProfileURL))))

	output.WriteString("## Education\n\n")
	if len(d.Education) == 0 {
		output.WriteString("_No entries found._\n\n")
	} else {
		output.WriteString("| Date | Place | Institution | Formation | Description |\n|---|---|---|---|---|\n")
		for _, e := range d.Education {
			output.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				cell(e.Date), cell(e.Place), cell(e.Institution), cell(e.FormationName), cell(e.Description)))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Experience\n\n")
	if len(d.Experience) == 0 {
		output.WriteString("_No entries found._\n\n")
	} else {
		output.WriteString("| Date | Place | Organization | Role | About | Description |\n|---|---|---|---|---|---|\n")
		for _, e := range d.Experience {
			output.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				cell(e.Date), cell(e.Place), cell(e.OrgName), cell(e.Role), cell(e.OrgDescription), cell(e.Description)))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Skills, Interests and Extracurricular Activities\n\n")
	output.WriteString(orDash(d.Skills))
	output.WriteString("\n\n## Key Achievements\n\n")
	output.WriteString(orDash(d.KeyAchievements))
	output.WriteString("\n\n## Personal Statement\n\n")
	output.WriteString(orDash(d.PersonalStatement))
	output.WriteString("\n")

	return output.String()
}

// cell makes text safe inside a table cell or heading.
func cell(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	return strings.ReplaceAll(s, "|", `\|`)
}

// SimilarityMarkdownFormatter handles markdown formatting for similarity scores
type SimilarityMarkdownFormatter struct{}

func (f *SimilarityMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.SimilarityResult)
	if !ok {
		return "", fmt.Errorf("expected SimilarityResult, got %T", data)
	}
	return fmt.Sprintf("# Similarity\n\n**Similarity Score:** %.2f%%\n\n- Resume: %s\n- Cosine: %.4f\n- Multiplier: %g\n",
		result.Score, result.Resume, result.RawCosine, result.Multiplier), nil
}

func (f *SimilarityMarkdownFormatter) SupportedType() string {
	return "SimilarityResult"
}

// AnswerMarkdownFormatter handles markdown formatting for answers
type AnswerMarkdownFormatter struct{}

func (f *AnswerMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Answer)
	if !ok {
		return "", fmt.Errorf("expected Answer, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("**Question:** %s\n\n", result.Question))
	output.WriteString(fmt.Sprintf("**Answer:** %s\n", result.Answer))
	if result.TokenUsage != nil {
		output.WriteString(fmt.Sprintf("\n_%d tokens, model %s_\n", result.TokenUsage.TotalTokens, result.Model))
	}
	return output.String(), nil
}

func (f *AnswerMarkdownFormatter) SupportedType() string {
	return "Answer"
}

// HistoryMarkdownFormatter renders parse runs as a table.
type HistoryMarkdownFormatter struct{}

func (f *HistoryMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ParseHistory)
	if !ok {
		return "", fmt.Errorf("expected ParseHistory, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Parse History\n\n")
	if len(result.Runs) == 0 {
		output.WriteString("_No parse runs recorded._\n")
		return output.String(), nil
	}
	output.WriteString("| When | Container | Resume | Candidate | Education | Experience |\n|---|---|---|---|---|---|\n")
	for _, run := range result.Runs {
		output.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d | %d |\n",
			run.CreatedAt.Format("2006-01-02 15:04"), cell(run.Container), cell(run.ResumeName),
			cell(orDash(run.CandidateName)), run.EducationCount, run.ExperienceCount))
	}
	return output.String(), nil
}

func (f *HistoryMarkdownFormatter) SupportedType() string {
	return "ParseHistory"
}
