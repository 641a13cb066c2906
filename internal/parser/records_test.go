package parser

import (
	"reflect"
	"testing"

	"resumeqa/internal/errors"
	"resumeqa/internal/nlp"
	"resumeqa/internal/types"
)

func ent(typ nlp.EntityType, text string) nlp.Entity {
	return nlp.Entity{Type: typ, Text: text}
}

func TestBuildEducation(t *testing.T) {
	logger := errors.NewNopLogger()

	tests := []struct {
		name      string
		sentences []nlp.Sentence
		want      []types.EducationRecord
	}{
		{
			name: "qualifying sentence followed by free text",
			sentences: []nlp.Sentence{
				{Text: "university of leeds, leeds 2015 - 2019", Entities: []nlp.Entity{
					ent(nlp.Org, "university of leeds"), ent(nlp.GPE, "leeds"), ent(nlp.Date, "2015 - 2019"),
				}},
				{Text: "first class honours."},
				{Text: "president of the\nchess society."},
			},
			want: []types.EducationRecord{{
				Date:          "2015 - 2019",
				Place:         "leeds",
				Institution:   "university of leeds",
				FormationName: types.NotAvailable,
				Description:   "first class honours. president of the chess society. ",
			}},
		},
		{
			name: "multi-line sentence fills formation and modules",
			sentences: []nlp.Sentence{
				{Text: "Education\nImperial College, London, 2018\nMSc Computing\nDistributed Systems, Compilers", Entities: []nlp.Entity{
					ent(nlp.Date, "2018"), ent(nlp.Org, "Imperial College"), ent(nlp.GPE, "London"),
				}},
				{Text: "Distinction."},
			},
			want: []types.EducationRecord{{
				Date:          "2018",
				Place:         "London",
				Institution:   "Imperial College",
				FormationName: "MSc Computing",
				Description:   "Modules: Distributed Systems, Compilers Distinction. ",
			}},
		},
		{
			name: "two lines without modules",
			sentences: []nlp.Sentence{
				{Text: "Oxford University, Oxford, 2012\nBA History", Entities: []nlp.Entity{
					ent(nlp.Org, "Oxford University"), ent(nlp.GPE, "Oxford"), ent(nlp.Date, "2012"),
				}},
			},
			want: []types.EducationRecord{{
				Date:          "2012",
				Place:         "Oxford",
				Institution:   "Oxford University",
				FormationName: "BA History",
				Description:   "Modules: N/A ",
			}},
		},
		{
			name: "leading free text is discarded",
			sentences: []nlp.Sentence{
				{Text: "i studied a lot."},
				{Text: "mit, boston 2010", Entities: []nlp.Entity{
					ent(nlp.Org, "mit"), ent(nlp.GPE, "boston"), ent(nlp.Date, "2010"),
				}},
			},
			want: []types.EducationRecord{{
				Date: "2010", Place: "boston", Institution: "mit",
				FormationName: types.NotAvailable, Description: types.NotAvailable,
			}},
		},
		{
			name: "missing one entity type does not open a record",
			sentences: []nlp.Sentence{
				{Text: "mit 2010", Entities: []nlp.Entity{ent(nlp.Org, "mit"), ent(nlp.Date, "2010")}},
			},
			want: []types.EducationRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildEducation(tt.sentences, logger)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildEducation() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestBuildExperience(t *testing.T) {
	logger := errors.NewNopLogger()

	tests := []struct {
		name      string
		sentences []nlp.Sentence
		want      []types.ExperienceRecord
	}{
		{
			name: "role from fourth comma field with date removed",
			sentences: []nlp.Sentence{
				{Text: "Work Experience\nAcme Ltd, London, UK, Software Engineer Jan 2020\nPayments startup", Entities: []nlp.Entity{
					ent(nlp.Org, "Work Experience"), ent(nlp.Org, "Acme Ltd"), ent(nlp.GPE, "London"), ent(nlp.Date, "Jan 2020"),
				}},
				{Text: "Built the\nledger."},
			},
			want: []types.ExperienceRecord{{
				Date:           "Jan 2020",
				Place:          "London",
				OrgName:        "Acme Ltd",
				Role:           "Software Engineer",
				OrgDescription: "Payments startup",
				Description:    "Built the ledger. ",
			}},
		},
		{
			name: "fewer than four fields leaves role unset",
			sentences: []nlp.Sentence{
				{Text: "Acme Ltd, London 2020\nPayments startup", Entities: []nlp.Entity{
					ent(nlp.Org, "Acme Ltd"), ent(nlp.GPE, "London"), ent(nlp.Date, "2020"),
				}},
			},
			want: []types.ExperienceRecord{{
				Date: "2020", Place: "London", OrgName: "Acme Ltd",
				Role: types.NotAvailable, OrgDescription: "Payments startup",
			}},
		},
		{
			name: "single line and only experience orgs",
			sentences: []nlp.Sentence{
				{Text: "experience co, paris 2019", Entities: []nlp.Entity{
					ent(nlp.Org, "Experience Co"), ent(nlp.GPE, "paris"), ent(nlp.Date, "2019"),
				}},
			},
			want: []types.ExperienceRecord{{
				Date: "2019", Place: "paris", OrgName: types.NotAvailable,
				Role: types.NotAvailable, OrgDescription: types.NotAvailable,
			}},
		},
		{
			name: "two records split free text",
			sentences: []nlp.Sentence{
				{Text: "a corp, rome 2018", Entities: []nlp.Entity{ent(nlp.Date, "2018"), ent(nlp.Org, "a corp"), ent(nlp.GPE, "rome")}},
				{Text: "did a."},
				{Text: "b inc, oslo 2020", Entities: []nlp.Entity{ent(nlp.Date, "2020"), ent(nlp.Org, "b inc"), ent(nlp.GPE, "oslo")}},
				{Text: "did b."},
			},
			want: []types.ExperienceRecord{
				{Date: "2018", Place: "rome", OrgName: "a corp", Role: types.NotAvailable, OrgDescription: types.NotAvailable, Description: "did a. "},
				{Date: "2020", Place: "oslo", OrgName: "b inc", Role: types.NotAvailable, OrgDescription: types.NotAvailable, Description: "did b. "},
			},
		},
		{
			name:      "no sentences",
			sentences: nil,
			want:      []types.ExperienceRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildExperience(tt.sentences, logger)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildExperience() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestBuildersAreDeterministic(t *testing.T) {
	logger := errors.NewNopLogger()
	sentences := []nlp.Sentence{
		{Text: "a corp, rome 2018", Entities: []nlp.Entity{ent(nlp.Date, "2018"), ent(nlp.Org, "a corp"), ent(nlp.GPE, "rome")}},
		{Text: "did a."},
	}

	first := BuildExperience(sentences, logger)
	for i := 0; i < 3; i++ {
		if again := BuildExperience(sentences, logger); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs", i)
		}
	}
}
