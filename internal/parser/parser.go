// Package parser turns resume text into structured ResumeData: contact
// fields by pattern, sections by heading, and education and experience
// entries from named entities.
package parser

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"resumeqa/internal/errors"
	"resumeqa/internal/nlp"
	"resumeqa/internal/types"
)

// Parser wires the extractors, the segmenter and an entity analyzer.
type Parser struct {
	analyzer    nlp.Analyzer
	segmenter   *Segmenter
	fingerprint string
	logger      *errors.Logger
}

// New creates a Parser. A nil rules slice selects DefaultSectionRules.
func New(analyzer nlp.Analyzer, rules []SectionRule, logger *errors.Logger) *Parser {
	if len(rules) == 0 {
		rules = DefaultSectionRules()
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &Parser{
		analyzer:    analyzer,
		segmenter:   NewSegmenter(rules),
		fingerprint: fingerprint(analyzer, rules),
		logger:      logger.With("component", "parser"),
	}
}

// Fingerprint is a short digest of the settings that shape Parse output:
// the analyzer and the section rules. Equal text parsed under equal
// fingerprints yields equal ResumeData.
func (p *Parser) Fingerprint() string {
	return p.fingerprint
}

func fingerprint(analyzer nlp.Analyzer, rules []SectionRule) string {
	var b strings.Builder
	if f, ok := analyzer.(nlp.Fingerprinter); ok {
		b.WriteString(f.Fingerprint())
	} else {
		fmt.Fprintf(&b, "%T", analyzer)
	}
	for _, r := range rules {
		fmt.Fprintf(&b, "\n%s=%s", r.Label, strings.Join(r.Keywords, ","))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:6])
}

// ParseDocument normalizes raw text and parses it.
func (p *Parser) ParseDocument(ctx context.Context, raw string) (types.ResumeData, error) {
	return p.Parse(ctx, Normalize(raw))
}

// Parse builds ResumeData from normalized text. Missing fields are not
// errors; only a failing entity analyzer aborts the parse.
func (p *Parser) Parse(ctx context.Context, text string) (types.ResumeData, error) {
	data := types.ResumeData{
		Education:  []types.EducationRecord{},
		Experience: []types.ExperienceRecord{},
	}

	data.Contact.Email, _ = ExtractEmail(text)
	data.Contact.PhoneNumber, _ = ExtractPhone(text)
	data.Contact.ProfileURL, _ = ExtractProfileURL(text)

	sections := p.segmenter.Segment(text)
	data.Skills = sections.Get(LabelSkills)
	data.KeyAchievements = sections.Get(LabelKeyAchievements)
	data.PersonalStatement = sections.Get(LabelPersonalStatement)

	document, err := p.analyze(ctx, text, "document")
	if err != nil {
		return types.ResumeData{}, err
	}
	data.Contact.Name, _ = nlp.FirstEntity(document, nlp.Person)

	if body := sections.Get(LabelEducation); body != "" {
		sentences, err := p.analyze(ctx, body, LabelEducation)
		if err != nil {
			return types.ResumeData{}, err
		}
		data.Education = BuildEducation(sentences, p.logger)
	}

	if body := sections.Get(LabelExperience); body != "" {
		sentences, err := p.analyze(ctx, body, LabelExperience)
		if err != nil {
			return types.ResumeData{}, err
		}
		data.Experience = BuildExperience(sentences, p.logger)
	}

	p.logger.Debug("resume parsed",
		"education_entries", len(data.Education),
		"experience_entries", len(data.Experience),
		"has_email", data.Contact.Email != "",
		"has_phone", data.Contact.PhoneNumber != "")

	return data, nil
}

func (p *Parser) analyze(ctx context.Context, text, scope string) ([]nlp.Sentence, error) {
	sentences, err := p.analyzer.Analyze(ctx, text)
	if err != nil {
		if appErr, ok := errors.As(err); ok {
			return nil, appErr.WithContext("scope", scope)
		}
		return nil, errors.NewAIError(errors.ErrCodeNERFailed, "entity recognition failed", err).
			WithContext("scope", scope)
	}
	return sentences, nil
}
