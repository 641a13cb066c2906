package parser

import (
	"testing"
)

func TestSegment(t *testing.T) {
	seg := NewSegmenter(DefaultSectionRules())

	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "two sections",
			text: "education: X. experience: Y.",
			want: map[string]string{
				LabelEducation:  "X.",
				LabelExperience: "Y.",
			},
		},
		{
			name: "order follows positions not declaration",
			text: "personal statement i like go. skills go, sql. education msc",
			want: map[string]string{
				LabelPersonalStatement: "i like go.",
				LabelSkills:            "go, sql.",
				LabelEducation:         "msc",
			},
		},
		{
			name: "any keyword opens the skills section",
			text: "interests chess experience acme",
			want: map[string]string{
				LabelSkills:     "chess",
				LabelExperience: "acme",
			},
		},
		{
			name: "two-word heading",
			text: "summary text key achievements - won prizes extracurricular activities rowing",
			want: map[string]string{
				LabelKeyAchievements: "won prizes",
				LabelSkills:          "rowing",
			},
		},
		{
			name: "first occurrence wins",
			text: "experience one education two experience three",
			want: map[string]string{
				LabelExperience: "one",
				LabelEducation:  "two experience three",
			},
		},
		{
			name: "keywords match whole tokens only",
			text: "educational background experienced engineer",
			want: map[string]string{},
		},
		{
			name: "no headings",
			text: "",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seg.Segment(tt.text)
			if len(got) != 5 {
				t.Fatalf("got %d sections, want 5", len(got))
			}
			for _, sec := range got {
				if want := tt.want[sec.Label]; sec.Text != want {
					t.Errorf("%s = %q, want %q", sec.Label, sec.Text, want)
				}
				if _, present := tt.want[sec.Label]; !present && sec.Start != -1 {
					t.Errorf("%s should be absent, start = %d", sec.Label, sec.Start)
				}
			}
		})
	}
}

func TestSegmentSectionsDoNotOverlap(t *testing.T) {
	seg := NewSegmenter(DefaultSectionRules())
	text := "jane education a b experience c d skills e key achievements f personal statement g"

	sections := seg.Segment(text)
	want := []struct {
		label string
		start int
	}{
		{LabelEducation, 5},
		{LabelExperience, 19},
		{LabelSkills, 34},
		{LabelKeyAchievements, 43},
		{LabelPersonalStatement, 62},
	}
	for i, w := range want {
		if sections[i].Label != w.label || sections[i].Start != w.start {
			t.Errorf("section %d = (%s, %d), want (%s, %d)", i, sections[i].Label, sections[i].Start, w.label, w.start)
		}
	}
	if got := sections.Get(LabelExperience); got != "c d" {
		t.Errorf("experience = %q", got)
	}
}

func TestSegmentTieBreakPrefersDeclarationOrder(t *testing.T) {
	seg := NewSegmenter([]SectionRule{
		{Label: "first", Keywords: []string{"profile"}},
		{Label: "second", Keywords: []string{"profile summary"}},
		{Label: "third", Keywords: []string{"contact"}},
	})

	got := seg.Segment("profile summary builder contact jane")
	if got.Get("first") != "summary builder" {
		t.Errorf("first = %q", got.Get("first"))
	}
	if got[1].Start != -1 || got.Get("second") != "" {
		t.Errorf("second should be absent, got %+v", got[1])
	}
	if got.Get("third") != "jane" {
		t.Errorf("third = %q", got.Get("third"))
	}
}

func TestSegmentHeadingInsideEarlierHeading(t *testing.T) {
	tests := []struct {
		name  string
		rules []SectionRule
	}{
		{
			name: "later phrase starts inside earlier phrase",
			rules: []SectionRule{
				{Label: LabelEducation, Keywords: []string{"education and training"}},
				{Label: LabelExperience, Keywords: []string{"training"}},
			},
		},
		{
			name: "later phrase covers earlier phrase",
			rules: []SectionRule{
				{Label: LabelEducation, Keywords: []string{"training"}},
				{Label: LabelExperience, Keywords: []string{"education and training"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSegmenter(tt.rules).Segment("education and training: msc. more")
			if got[1].Start != -1 || got.Get(LabelExperience) != "" {
				t.Errorf("overlapping heading should be absent, got %+v", got[1])
			}
			if got[0].Start < 0 {
				t.Fatalf("first label lost its heading: %+v", got[0])
			}
		})
	}

	got := NewSegmenter(tests[0].rules).Segment("education and training: msc. more")
	if want := "msc. more"; got.Get(LabelEducation) != want {
		t.Errorf("education = %q, want %q", got.Get(LabelEducation), want)
	}
}

func TestSegmentIsDeterministic(t *testing.T) {
	seg := NewSegmenter(DefaultSectionRules())
	text := "education a experience b skills c"
	first := seg.Segment(text).Map()
	for i := 0; i < 3; i++ {
		again := seg.Segment(text).Map()
		for k, v := range first {
			if again[k] != v {
				t.Fatalf("run %d: %s = %q, want %q", i, k, again[k], v)
			}
		}
	}
}
