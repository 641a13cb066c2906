// Package nlp defines the named-entity recognition contract used by the
// resume parser and ships a deterministic rule-based implementation of it.
package nlp

import "context"

// EntityType is the semantic label of an entity span.
type EntityType string

const (
	Person EntityType = "PERSON"
	Date   EntityType = "DATE"
	Org    EntityType = "ORG"
	GPE    EntityType = "GPE"
)

// Entity is a tagged span of sentence text.
type Entity struct {
	Type EntityType `json:"type"`
	Text string     `json:"text"`
}

// Sentence is a sentence of the analyzed text together with its entities
// in order of appearance.
type Sentence struct {
	Text     string   `json:"text"`
	Entities []Entity `json:"entities"`
}

// Analyzer segments text into sentences and tags entities.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]Sentence, error)
}

// Fingerprinter is implemented by analyzers whose output depends on
// settings. Fingerprint changes whenever those settings change.
type Fingerprinter interface {
	Fingerprint() string
}

// Has reports whether the sentence carries at least one entity of type t.
func (s Sentence) Has(t EntityType) bool {
	_, ok := s.First(t)
	return ok
}

// First returns the text of the first entity of type t.
func (s Sentence) First(t EntityType) (string, bool) {
	for _, e := range s.Entities {
		if e.Type == t {
			return e.Text, true
		}
	}
	return "", false
}

// FirstMatching returns the first entity of type t accepted by keep.
func (s Sentence) FirstMatching(t EntityType, keep func(string) bool) (string, bool) {
	for _, e := range s.Entities {
		if e.Type == t && keep(e.Text) {
			return e.Text, true
		}
	}
	return "", false
}

// FirstEntity scans sentences in order and returns the first entity of type t.
func FirstEntity(sentences []Sentence, t EntityType) (string, bool) {
	for _, s := range sentences {
		if text, ok := s.First(t); ok {
			return text, true
		}
	}
	return "", false
}
