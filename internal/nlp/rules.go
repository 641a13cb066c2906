package nlp

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxOrgLeftWords  = 2
	maxOrgRightWords = 3
	maxPlaceWords    = 3
	maxNameWords     = 3
)

var (
	wordToken = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’&][\p{L}\p{N}]+)*`)

	monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	dateUnit     = `(?:` + monthPattern + `\.?,?\s+(?:\d{1,2},?\s+)?(?:19|20)\d{2}|\d{1,2}/(?:19|20)\d{2}|(?:19|20)\d{2})`
	datePattern  = regexp.MustCompile(`(?i)\b` + dateUnit +
		`(?:\s*(?:-|–|—|to|until)\s*(?:` + dateUnit + `|present|current|now|today))?\b`)
)

// RuleOptions extends the built-in vocabularies of the rule analyzer.
type RuleOptions struct {
	ExtraPlaces        []string
	ExtraOrgSuffixes   []string
	ExtraOrganizations []string
}

// RuleAnalyzer is an offline, deterministic Analyzer. It recognizes dates
// with patterns, places with a gazetteer, organizations by institution and
// company keywords, and a person name at the very start of the text.
type RuleAnalyzer struct {
	places      map[string]struct{}
	heads       map[string]struct{}
	suffixes    map[string]struct{}
	known       map[string]struct{}
	stop        map[string]struct{}
	months      map[string]struct{}
	headings    map[string]struct{}
	abbreviated map[string]struct{}
	fingerprint string
}

// NewRuleAnalyzer builds a RuleAnalyzer with the built-in vocabularies plus opts.
func NewRuleAnalyzer(opts RuleOptions) *RuleAnalyzer {
	return &RuleAnalyzer{
		places:      toSet(places, lowerAll(opts.ExtraPlaces)),
		heads:       toSet(institutionHeads),
		suffixes:    toSet(orgSuffixes, lowerAll(opts.ExtraOrgSuffixes)),
		known:       toSet(knownOrganizations, lowerAll(opts.ExtraOrganizations)),
		stop:        toSet(stopwords),
		months:      toSet(months),
		headings:    toSet(headingWords),
		abbreviated: toSet(abbreviations),
		fingerprint: "rules|" + strings.Join([]string{
			joinSorted(opts.ExtraPlaces),
			joinSorted(opts.ExtraOrgSuffixes),
			joinSorted(opts.ExtraOrganizations),
		}, "|"),
	}
}

// Fingerprint identifies the vocabulary additions the analyzer was built with.
func (a *RuleAnalyzer) Fingerprint() string {
	return a.fingerprint
}

func joinSorted(words []string) string {
	sorted := lowerAll(words)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Analyze implements Analyzer.
func (a *RuleAnalyzer) Analyze(ctx context.Context, text string) ([]Sentence, error) {
	var sentences []Sentence
	for i, raw := range a.SplitSentences(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sentences = append(sentences, Sentence{
			Text:     raw,
			Entities: a.tag(raw, i == 0),
		})
	}
	return sentences, nil
}

var abbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "st", "jr", "sr", "vs", "no", "approx", "dept", "univ",
	"inc", "ltd", "corp", "co", "jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep",
	"sept", "oct", "nov", "dec",
}

// SplitSentences breaks text at '.', '!' or '?' followed by whitespace and
// at blank lines. Line breaks inside a sentence are kept.
func (a *RuleAnalyzer) SplitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\n':
			j := i + 1
			for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\r') {
				j++
			}
			if j < len(text) && text[j] == '\n' {
				out = appendSentence(out, text[start:i])
				start = j + 1
				i = j
			}
		case '.', '!', '?':
			if i+1 < len(text) && !isSpaceByte(text[i+1]) {
				continue
			}
			if c == '.' && a.isAbbreviation(text[start:i]) {
				continue
			}
			out = appendSentence(out, text[start:i+1])
			start = i + 1
		}
	}
	return appendSentence(out, text[start:])
}

func (a *RuleAnalyzer) isAbbreviation(prefix string) bool {
	fields := strings.Fields(prefix)
	if len(fields) == 0 {
		return false
	}
	last := strings.ToLower(strings.TrimLeft(fields[len(fields)-1], "("))
	if utf8.RuneCountInString(last) == 1 {
		r, _ := utf8.DecodeRuneInString(last)
		return unicode.IsLetter(r)
	}
	if strings.Contains(last, ".") {
		return true
	}
	_, ok := a.abbreviated[last]
	return ok
}

func appendSentence(out []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return out
	}
	return append(out, s)
}

type token struct {
	text       string
	start, end int
}

type span struct {
	typ        EntityType
	start, end int
}

func (a *RuleAnalyzer) tag(sentence string, leading bool) []Entity {
	toks := tokenize(sentence)

	var spans []span
	for _, loc := range datePattern.FindAllStringIndex(sentence, -1) {
		spans = append(spans, span{typ: Date, start: loc[0], end: loc[1]})
	}
	spans = append(spans, a.orgSpans(sentence, toks)...)
	spans = append(spans, a.placeSpans(sentence, toks)...)
	if leading {
		if s, ok := a.personSpan(sentence, toks, spans); ok {
			spans = append(spans, s)
		}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end-spans[i].start > spans[j].end-spans[j].start
	})

	var entities []Entity
	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		entities = append(entities, Entity{Type: s.typ, Text: sentence[s.start:s.end]})
		lastEnd = s.end
	}
	return entities
}

func tokenize(text string) []token {
	locs := wordToken.FindAllStringIndex(text, -1)
	toks := make([]token, 0, len(locs))
	for _, loc := range locs {
		toks = append(toks, token{
			text:  strings.ToLower(text[loc[0]:loc[1]]),
			start: loc[0],
			end:   loc[1],
		})
	}
	return toks
}

// adjacent reports whether only spaces or tabs separate toks[i] and toks[i+1].
func adjacent(text string, toks []token, i int) bool {
	if i < 0 || i+1 >= len(toks) {
		return false
	}
	gap := text[toks[i].end:toks[i+1].start]
	return gap != "" && strings.Trim(gap, " \t") == ""
}

func (a *RuleAnalyzer) isPlainWord(t token) bool {
	if _, ok := a.stop[t.text]; ok {
		return false
	}
	if _, ok := a.months[t.text]; ok {
		return false
	}
	for _, r := range t.text {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (a *RuleAnalyzer) orgSpans(text string, toks []token) []span {
	var spans []span
	for i, t := range toks {
		_, isHead := a.heads[t.text]
		_, isSuffix := a.suffixes[t.text]
		_, isKnown := a.known[t.text]
		if !isHead && !isSuffix && !isKnown {
			continue
		}

		first := i
		for n := 0; !isKnown && n < maxOrgLeftWords && adjacent(text, toks, first-1) && a.isPlainWord(toks[first-1]); n++ {
			first--
		}

		last := i
		if isHead && adjacent(text, toks, i) && (toks[i+1].text == "of" || toks[i+1].text == "for") {
			j := i + 1
			for n := 0; n < maxOrgRightWords && adjacent(text, toks, j) && a.isPlainWord(toks[j+1]); n++ {
				j++
			}
			if j > i+1 {
				last = j
			}
		}

		spans = append(spans, span{typ: Org, start: toks[first].start, end: toks[last].end})
	}
	return spans
}

func (a *RuleAnalyzer) placeSpans(text string, toks []token) []span {
	var spans []span
	for i := 0; i < len(toks); i++ {
		matched := -1
		phrase := toks[i].text
		if _, ok := a.places[phrase]; ok {
			matched = i
		}
		for j := i; j < i+maxPlaceWords-1 && adjacent(text, toks, j); j++ {
			phrase += " " + toks[j+1].text
			if _, ok := a.places[phrase]; ok {
				matched = j + 1
			}
		}
		if matched >= 0 {
			spans = append(spans, span{typ: GPE, start: toks[i].start, end: toks[matched].end})
			i = matched
		}
	}
	return spans
}

// personSpan finds a leading name run. The run stops at the first token
// already covered by another entity.
func (a *RuleAnalyzer) personSpan(text string, toks []token, taken []span) (span, bool) {
	if len(toks) == 0 || strings.TrimSpace(text[:toks[0].start]) != "" {
		return span{}, false
	}

	n := 0
	for n < len(toks) && n < maxNameWords {
		t := toks[n]
		if !a.isNameWord(t) || joinedToSymbol(text, t.end) || covered(taken, t) {
			break
		}
		n++
		if !adjacent(text, toks, n-1) {
			break
		}
	}
	if n < 2 {
		return span{}, false
	}
	return span{typ: Person, start: toks[0].start, end: toks[n-1].end}, true
}

func (a *RuleAnalyzer) isNameWord(t token) bool {
	if utf8.RuneCountInString(t.text) < 2 || !a.isPlainWord(t) {
		return false
	}
	for _, vocab := range []map[string]struct{}{a.headings, a.heads, a.suffixes, a.places} {
		if _, ok := vocab[t.text]; ok {
			return false
		}
	}
	for _, r := range t.text {
		if !unicode.IsLetter(r) && r != '\'' && r != '’' {
			return false
		}
	}
	return true
}

func covered(spans []span, t token) bool {
	for _, s := range spans {
		if t.start < s.end && s.start < t.end {
			return true
		}
	}
	return false
}

// joinedToSymbol reports whether the byte at pos glues the token to an
// address-like continuation such as "john.smith@".
func joinedToSymbol(text string, pos int) bool {
	if pos >= len(text) {
		return false
	}
	switch text[pos] {
	case '.', '@', '_', '-':
		return true
	}
	return false
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
