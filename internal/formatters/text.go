package formatters

import (
	"fmt"
	"strings"

	"resumeqa/internal/types"
)

// ListTextFormatter prints one resume name per line.
type ListTextFormatter struct{}

func (f *ListTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ResumeList)
	if !ok {
		return "", fmt.Errorf("expected ResumeList, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("=== RESUMES IN %s ===\n", strings.ToUpper(result.Container)))
	if len(result.Names) == 0 {
		output.WriteString("No files found in the specified container.\n")
		return output.String(), nil
	}
	for _, name := range result.Names {
		output.WriteString(name)
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (f *ListTextFormatter) SupportedType() string {
	return "ResumeList"
}

// ResumeTextFormatter handles text formatting for parsed resumes
type ResumeTextFormatter struct{}

func (f *ResumeTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ParsedResume)
	if !ok {
		return "", fmt.Errorf("expected ParsedResume, got %T", data)
	}
	d := result.Data

	var output strings.Builder
	output.WriteString(fmt.Sprintf("=== %s ===\n\n", result.Name))

	output.WriteString("=== CONTACT INFORMATION ===\n")
	output.WriteString(fmt.Sprintf("Name: %s\n", orDash(d.Contact.Name)))
	output.WriteString(fmt.Sprintf("Email: %s\n", orDash(d.Contact.Email)))
	output.WriteString(fmt.Sprintf("Phone Number: %s\n", orDash(d.Contact.PhoneNumber)))
	output.WriteString(fmt.Sprintf("Portfolio/LinkedIn: %s\n\n", orDash(d.Contact.ProfileURL)))

	output.WriteString("=== EDUCATION ===\n")
	if len(d.Education) == 0 {
		output.WriteString("No entries found.\n")
	}
	for i, e := range d.Education {
		output.WriteString(fmt.Sprintf("%d. %s, %s (%s)\n", i+1, e.Institution, e.Place, e.Date))
		output.WriteString(fmt.Sprintf("   Formation: %s\n", e.FormationName))
		output.WriteString(fmt.Sprintf("   Description: %s\n", strings.TrimSpace(e.Description)))
	}
	output.WriteString("\n")

	output.WriteString("=== EXPERIENCE ===\n")
	if len(d.Experience) == 0 {
		output.WriteString("No entries found.\n")
	}
	for i, e := range d.Experience {
		output.WriteString(fmt.Sprintf("%d. %s at %s, %s (%s)\n", i+1, e.Role, e.OrgName, e.Place, e.Date))
		output.WriteString(fmt.Sprintf("   About: %s\n", e.OrgDescription))
		output.WriteString(fmt.Sprintf("   Description: %s\n", strings.TrimSpace(e.Description)))
	}
	output.WriteString("\n")

	writeTextBlock(&output, "SKILLS, INTERESTS AND EXTRACURRICULAR ACTIVITIES", d.Skills)
	writeTextBlock(&output, "KEY ACHIEVEMENTS", d.KeyAchievements)
	writeTextBlock(&output, "PERSONAL STATEMENT", d.PersonalStatement)

	if result.Cached {
		output.WriteString("(served from cache)\n")
	}
	return output.String(), nil
}

func (f *ResumeTextFormatter) SupportedType() string {
	return "ParsedResume"
}

func writeTextBlock(b *strings.Builder, title, body string) {
	b.WriteString(fmt.Sprintf("=== %s ===\n", title))
	b.WriteString(orDash(body))
	b.WriteString("\n\n")
}

// SimilarityTextFormatter handles text formatting for similarity scores
type SimilarityTextFormatter struct{}

func (f *SimilarityTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.SimilarityResult)
	if !ok {
		return "", fmt.Errorf("expected SimilarityResult, got %T", data)
	}
	return fmt.Sprintf("Similarity Score: %.2f%%\nResume: %s\nCosine: %.4f (x%g)\n",
		result.Score, result.Resume, result.RawCosine, result.Multiplier), nil
}

func (f *SimilarityTextFormatter) SupportedType() string {
	return "SimilarityResult"
}

// AnswerTextFormatter handles text formatting for answers
type AnswerTextFormatter struct{}

func (f *AnswerTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Answer)
	if !ok {
		return "", fmt.Errorf("expected Answer, got %T", data)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Question: %s\n", result.Question))
	output.WriteString(fmt.Sprintf("Answer: %s\n", result.Answer))
	if result.TokenUsage != nil {
		output.WriteString(fmt.Sprintf("Tokens: %d (model %s)\n", result.TokenUsage.TotalTokens, result.Model))
	}
	return output.String(), nil
}

func (f *AnswerTextFormatter) SupportedType() string {
	return "Answer"
}

// HistoryTextFormatter prints one parse run per line.
type HistoryTextFormatter struct{}

func (f *HistoryTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ParseHistory)
	if !ok {
		return "", fmt.Errorf("expected ParseHistory, got %T", data)
	}
	if len(result.Runs) == 0 {
		return "No parse runs recorded.\n", nil
	}

	var output strings.Builder
	for _, run := range result.Runs {
		output.WriteString(fmt.Sprintf("%s  %s/%s  %s  education=%d experience=%d\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"), run.Container, run.ResumeName,
			orDash(run.CandidateName), run.EducationCount, run.ExperienceCount))
	}
	return output.String(), nil
}

func (f *HistoryTextFormatter) SupportedType() string {
	return "ParseHistory"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
