package types

import "time"

// NotAvailable marks a record field that could not be determined.
const NotAvailable = "N/A"

// ContactInfo holds the contact fields found in a resume. Empty means no match.
type ContactInfo struct {
	Name        string `json:"Name,omitempty"`
	Email       string `json:"Email,omitempty"`
	PhoneNumber string `json:"Phone Number,omitempty"`
	ProfileURL  string `json:"Portfolio/LinkedIn,omitempty"`
}

// ExperienceRecord is one entry of the Experience section.
type ExperienceRecord struct {
	Date           string `json:"date"`
	Place          string `json:"place"`
	OrgName        string `json:"org-name"`
	Role           string `json:"role"`
	OrgDescription string `json:"org-description"`
	Description    string `json:"description"`
}

// EducationRecord is one entry of the Education section.
type EducationRecord struct {
	Date          string `json:"date"`
	Place         string `json:"place"`
	Institution   string `json:"institution"`
	FormationName string `json:"formation-name"`
	Description   string `json:"description"`
}

// ResumeData is the structured result of parsing one resume.
type ResumeData struct {
	Education         []EducationRecord  `json:"education"`
	Experience        []ExperienceRecord `json:"experience"`
	Skills            string             `json:"skills_interests_and_extracurricular_activities"`
	KeyAchievements   string             `json:"key_achievements"`
	PersonalStatement string             `json:"personal_statement"`
	Contact           ContactInfo        `json:"contact_information"`
}

// ParsedResume couples the parsed data with the text it came from.
type ParsedResume struct {
	Name        string     `json:"name"`
	Container   string     `json:"container"`
	ContentHash string     `json:"contentHash"`
	Text        string     `json:"text"`
	Data        ResumeData `json:"data"`
	Cached      bool       `json:"cached"`
}

// ResumeRef is a listing entry from blob storage.
type ResumeRef struct {
	Name         string    `json:"name"`
	Container    string    `json:"container"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified,omitzero"`
}

// ResumeList is the output of the list operation.
type ResumeList struct {
	Container string   `json:"container"`
	Names     []string `json:"names"`
}

// SimilarityInput is the input of the similarity operation.
type SimilarityInput struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

// SimilarityResult is the TF-IDF match between a resume and a job description.
type SimilarityResult struct {
	Resume     string  `json:"resume"`
	Score      float64 `json:"score"`
	RawCosine  float64 `json:"rawCosine"`
	Multiplier float64 `json:"multiplier"`
}

// AskInput is the input of the question-answering operation.
type AskInput struct {
	Resume   string `json:"resume"`
	Question string `json:"question"`
}

// Answer is the question-answering result.
type Answer struct {
	Resume     string      `json:"resume"`
	Question   string      `json:"question"`
	Answer     string      `json:"answer"`
	Model      string      `json:"model,omitempty"`
	TokenUsage *TokenUsage `json:"tokenUsage,omitempty"`
}

// TokenUsage reports model token consumption for one call.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ParseRun is one row of the parse history.
type ParseRun struct {
	ID              string    `json:"id"`
	ResumeName      string    `json:"resumeName"`
	Container       string    `json:"container"`
	ContentHash     string    `json:"contentHash"`
	CandidateName   string    `json:"candidateName"`
	EducationCount  int       `json:"educationCount"`
	ExperienceCount int       `json:"experienceCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ParseHistory is the output of the history operation.
type ParseHistory struct {
	Runs []ParseRun `json:"runs"`
}
