package parser

import (
	"regexp"
	"slices"
	"strings"
)

// Section labels in declaration order.
const (
	LabelEducation         = "Education"
	LabelExperience        = "Experience"
	LabelSkills            = "Skills, Interests and Extracurricular Activities"
	LabelKeyAchievements   = "Key Achievements"
	LabelPersonalStatement = "Personal Statement"
)

// SectionRule names a section and the heading phrases that open it.
type SectionRule struct {
	Label    string   `mapstructure:"label"`
	Keywords []string `mapstructure:"keywords"`
}

// DefaultSectionRules is the fixed label set of a resume.
func DefaultSectionRules() []SectionRule {
	return []SectionRule{
		{Label: LabelEducation, Keywords: []string{"education"}},
		{Label: LabelExperience, Keywords: []string{"experience"}},
		{Label: LabelSkills, Keywords: []string{"skills", "interests", "extracurricular activities"}},
		{Label: LabelKeyAchievements, Keywords: []string{"key achievements"}},
		{Label: LabelPersonalStatement, Keywords: []string{"personal statement"}},
	}
}

// Section is a labeled span of the document. Start is the byte offset of
// the heading, or -1 when the heading is absent.
type Section struct {
	Label string
	Start int
	Text  string
}

// Sections is the segmenter output in declaration order.
type Sections []Section

// Get returns the text of label, or "" when it is absent.
func (s Sections) Get(label string) string {
	for _, sec := range s {
		if sec.Label == label {
			return sec.Text
		}
	}
	return ""
}

// Map returns label -> text.
func (s Sections) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, sec := range s {
		m[sec.Label] = sec.Text
	}
	return m
}

var segmentToken = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\s\p{L}\p{N}_]`)

type segToken struct {
	text       string
	start, end int
}

func segTokenize(text string) []segToken {
	locs := segmentToken.FindAllStringIndex(text, -1)
	toks := make([]segToken, 0, len(locs))
	for _, loc := range locs {
		toks = append(toks, segToken{
			text:  strings.ToLower(text[loc[0]:loc[1]]),
			start: loc[0],
			end:   loc[1],
		})
	}
	return toks
}

// Segmenter splits normalized resume text into labeled sections.
type Segmenter struct {
	labels  []string
	phrases [][][]string
}

// NewSegmenter compiles rules. Keyword phrases match case-insensitively on
// whole tokens.
func NewSegmenter(rules []SectionRule) *Segmenter {
	s := &Segmenter{}
	for _, rule := range rules {
		var phrases [][]string
		for _, kw := range rule.Keywords {
			var words []string
			for _, t := range segTokenize(kw) {
				words = append(words, t.text)
			}
			if len(words) > 0 {
				phrases = append(phrases, words)
			}
		}
		s.labels = append(s.labels, rule.Label)
		s.phrases = append(s.phrases, phrases)
	}
	return s
}

type heading struct {
	start   int // token index, -1 when absent
	matched int // tokens in the matched phrase
}

// Segment locates the first heading of every label and cuts the text at
// the next heading of any other label. Heading phrases never overlap: when
// a label's heading shares a token with one claimed by an earlier-declared
// label, the later label is absent.
func (s *Segmenter) Segment(text string) Sections {
	toks := segTokenize(text)

	heads := make([]heading, len(s.labels))
	claimed := make([]bool, len(toks))
	for i := range s.labels {
		heads[i] = heading{start: -1}
		for pos := range toks {
			if n := matchAny(toks, pos, s.phrases[i]); n > 0 {
				heads[i] = heading{start: pos, matched: n}
				break
			}
		}
		h := heads[i]
		if h.start < 0 {
			continue
		}
		if slices.Contains(claimed[h.start:h.start+h.matched], true) {
			heads[i] = heading{start: -1}
			continue
		}
		for t := h.start; t < h.start+h.matched; t++ {
			claimed[t] = true
		}
	}

	out := make(Sections, len(s.labels))
	for i, label := range s.labels {
		out[i] = Section{Label: label, Start: -1}
		h := heads[i]
		if h.start < 0 {
			continue
		}

		end := len(toks)
		for j, other := range heads {
			if j != i && other.start > h.start && other.start < end {
				end = other.start
			}
		}

		endByte := len(text)
		if end < len(toks) {
			endByte = toks[end].start
		}
		bodyStart := toks[h.start+h.matched-1].end

		out[i].Start = toks[h.start].start
		out[i].Text = stripHeadingSeparators(text[bodyStart:endByte])
	}
	return out
}

func stripHeadingSeparators(body string) string {
	return strings.TrimSpace(strings.TrimLeft(body, " \t\r\n:-–—|"))
}

// matchAny returns the token length of the first phrase matching at pos.
func matchAny(toks []segToken, pos int, phrases [][]string) int {
	for _, phrase := range phrases {
		if pos+len(phrase) > len(toks) {
			continue
		}
		ok := true
		for k, word := range phrase {
			if toks[pos+k].text != word {
				ok = false
				break
			}
		}
		if ok {
			return len(phrase)
		}
	}
	return 0
}
