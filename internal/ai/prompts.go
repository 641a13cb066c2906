package ai

// Prompts holds the system instruction and the user prompt template of one operation.
type Prompts struct {
	System string
	User   string
}

// DefaultAnswerPrompts are used for question answering. The user template
// takes the question and the context, in that order.
var DefaultAnswerPrompts = Prompts{
	System: `You answer questions about a single candidate's resume.

- Use only facts stated in the provided context
- Answer briefly, in one or two sentences
- If the context does not contain the answer, say that the resume does not mention it`,

	User: "question: %s context: %s",
}

// DefaultEntityPrompts are used for named-entity recognition. The user
// template takes the text to analyze.
var DefaultEntityPrompts = Prompts{
	System: `You are a named-entity recognizer for resume text.

Split the text into sentences, keeping each sentence's text exactly as it appears
(including line breaks). For every sentence list the entities in order of appearance.
Allowed entity types:
- PERSON: names of people
- DATE: dates, years and date ranges such as "2018 - 2020" or "Jan 2019 - present"
- ORG: companies, universities, schools and other organizations
- GPE: countries, cities and states
Copy entity text verbatim from the sentence. Do not invent entities.`,

	User: `Extract the sentences and entities of the following text.

-----
%s
-----`,
}

// resolvePrompt selects the prompt string in priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
