package parser

import (
	"strings"

	"resumeqa/internal/errors"
	"resumeqa/internal/nlp"
	"resumeqa/internal/types"
)

// startsRecord reports whether a sentence opens a new education or
// experience entry.
func startsRecord(s nlp.Sentence) bool {
	return s.Has(nlp.Date) && s.Has(nlp.Org) && s.Has(nlp.GPE)
}

func orNA(text string, ok bool) string {
	if !ok {
		return types.NotAvailable
	}
	return text
}

// contentLines splits a sentence on newlines and drops blank lines and
// lines that repeat the section word.
func contentLines(text, sectionWord string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || strings.Contains(strings.ToLower(line), sectionWord) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func appendDescription(current, sentence string) string {
	if current == types.NotAvailable {
		current = ""
	}
	return current + strings.ReplaceAll(sentence, "\n", " ") + " "
}

// BuildExperience assembles experience records from the analyzed sentences
// of the Experience section in a single pass.
func BuildExperience(sentences []nlp.Sentence, logger *errors.Logger) []types.ExperienceRecord {
	const word = "experience"
	records := []types.ExperienceRecord{}

	for _, s := range sentences {
		if !startsRecord(s) {
			if len(records) == 0 {
				logger.Debug("sentence before first experience entry discarded", "sentence", s.Text)
				continue
			}
			last := &records[len(records)-1]
			last.Description = appendDescription(last.Description, s.Text)
			continue
		}

		date, _ := s.First(nlp.Date)
		rec := types.ExperienceRecord{
			Date:  date,
			Place: orNA(s.First(nlp.GPE)),
			OrgName: orNA(s.FirstMatching(nlp.Org, func(org string) bool {
				return !strings.Contains(strings.ToLower(org), word)
			})),
			Role:           types.NotAvailable,
			OrgDescription: types.NotAvailable,
		}

		if lines := contentLines(s.Text, word); len(lines) > 1 {
			if fields := strings.Split(lines[0], ","); len(fields) > 3 {
				role := strings.TrimSpace(strings.ReplaceAll(fields[3], date, ""))
				if role != "" {
					rec.Role = role
				}
			}
			rec.OrgDescription = lines[1]
		}

		records = append(records, rec)
	}
	return records
}

// BuildEducation assembles education records from the analyzed sentences of
// the Education section in a single pass.
func BuildEducation(sentences []nlp.Sentence, logger *errors.Logger) []types.EducationRecord {
	const word = "education"
	records := []types.EducationRecord{}

	for _, s := range sentences {
		if !startsRecord(s) {
			if len(records) == 0 {
				logger.Debug("sentence before first education entry discarded", "sentence", s.Text)
				continue
			}
			last := &records[len(records)-1]
			last.Description = appendDescription(last.Description, s.Text)
			continue
		}

		date, _ := s.First(nlp.Date)
		rec := types.EducationRecord{
			Date:          date,
			Place:         orNA(s.First(nlp.GPE)),
			Institution:   orNA(s.First(nlp.Org)),
			FormationName: types.NotAvailable,
			Description:   types.NotAvailable,
		}

		if lines := contentLines(s.Text, word); len(lines) > 1 {
			rec.FormationName = lines[1]
			modules := types.NotAvailable
			if len(lines) > 2 {
				modules = lines[2]
			}
			rec.Description = "Modules: " + modules + " "
		}

		records = append(records, rec)
	}
	return records
}
