package nlp

import (
	"context"
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	a := NewRuleAnalyzer(RuleOptions{})

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "period boundaries",
			text: "first sentence. second one! third?",
			want: []string{"first sentence.", "second one!", "third?"},
		},
		{
			name: "abbreviations and initials do not split",
			text: "supervised by dr. smith at j. p. morgan. next.",
			want: []string{"supervised by dr. smith at j. p. morgan.", "next."},
		},
		{
			name: "dotted tokens do not split",
			text: "graduated with a b.sc. in physics. moved on.",
			want: []string{"graduated with a b.sc. in physics.", "moved on."},
		},
		{
			name: "blank line splits and single newline does not",
			text: "acme ltd, london\nsoftware engineer\n\nbuilt things",
			want: []string{"acme ltd, london\nsoftware engineer", "built things"},
		},
		{
			name: "decimal points stay inside",
			text: "gpa 3.8 out of 4.0 overall",
			want: []string{"gpa 3.8 out of 4.0 overall"},
		},
		{
			name: "empty",
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeTagsEducationLine(t *testing.T) {
	a := NewRuleAnalyzer(RuleOptions{})

	sentences, err := a.Analyze(context.Background(),
		"university of leeds, leeds, united kingdom sep 2015 - jun 2019 bsc computer science.")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(sentences) != 1 {
		t.Fatalf("got %d sentences, want 1", len(sentences))
	}

	want := []Entity{
		{Type: Org, Text: "university of leeds"},
		{Type: GPE, Text: "leeds"},
		{Type: GPE, Text: "united kingdom"},
		{Type: Date, Text: "sep 2015 - jun 2019"},
	}
	if !reflect.DeepEqual(sentences[0].Entities, want) {
		t.Errorf("entities = %+v, want %+v", sentences[0].Entities, want)
	}
}

func TestAnalyzeTagsCompanies(t *testing.T) {
	a := NewRuleAnalyzer(RuleOptions{ExtraOrgSuffixes: []string{"Bakery"}})

	tests := []struct {
		name    string
		text    string
		wantOrg string
	}{
		{"suffix with left words", "joined acme widgets ltd in 2020", "acme widgets ltd"},
		{"stopword stops extension", "engineer at initech inc 2019", "initech inc"},
		{"known organization", "intern at google, london 2021", "google"},
		{"configured suffix", "baker at rosie bakery, paris 2018", "rosie bakery"},
		{"institution head", "imperial college london 2014", "imperial college"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences, err := a.Analyze(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			got, ok := FirstEntity(sentences, Org)
			if !ok || got != tt.wantOrg {
				t.Errorf("first ORG = %q (found %v), want %q", got, ok, tt.wantOrg)
			}
			if !sentences[0].Has(Date) {
				t.Errorf("expected a DATE entity in %q", tt.text)
			}
		})
	}
}

func TestAnalyzeLeadingPerson(t *testing.T) {
	a := NewRuleAnalyzer(RuleOptions{})

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"name before email", "jane doe jane.doe@mail.com +44 7700 900123", "jane doe", true},
		{"three part name", "mary ann smith, london", "mary ann smith", true},
		{"heading first", "education university of leeds 2019", "", false},
		{"single word", "jane, developer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences, err := a.Analyze(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			got, ok := FirstEntity(sentences, Person)
			if ok != tt.ok || got != tt.want {
				t.Errorf("PERSON = %q (%v), want %q (%v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAnalyzeOnlyTagsPersonInFirstSentence(t *testing.T) {
	a := NewRuleAnalyzer(RuleOptions{})
	sentences, err := a.Analyze(context.Background(), "built apis. john smith reviewed them.")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	for _, s := range sentences[1:] {
		if s.Has(Person) {
			t.Errorf("unexpected PERSON in %q", s.Text)
		}
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := NewRuleAnalyzer(RuleOptions{})
	text := "acme corp, berlin, germany 2018 - present backend engineer. wrote go services. led migrations."

	first, err := a.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := a.Analyze(context.Background(), text)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestAnalyzeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRuleAnalyzer(RuleOptions{}).Analyze(ctx, "one. two."); err == nil {
		t.Error("expected context error")
	}
}
