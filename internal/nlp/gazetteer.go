package nlp

// places is the built-in GPE gazetteer. Entries are lower-case and may span
// up to three words.
var places = []string{
	// countries
	"afghanistan", "albania", "algeria", "argentina", "australia", "austria", "bangladesh",
	"belgium", "brazil", "bulgaria", "cameroon", "canada", "chile", "china", "colombia",
	"croatia", "czech republic", "denmark", "egypt", "england", "estonia", "ethiopia",
	"finland", "france", "germany", "ghana", "greece", "hong kong", "hungary", "iceland",
	"india", "indonesia", "iran", "iraq", "ireland", "israel", "italy", "ivory coast",
	"japan", "jordan", "kenya", "latvia", "lebanon", "lithuania", "luxembourg", "malaysia",
	"mexico", "morocco", "nepal", "netherlands", "new zealand", "nigeria", "northern ireland",
	"norway", "pakistan", "peru", "philippines", "poland", "portugal", "qatar", "romania",
	"russia", "saudi arabia", "scotland", "senegal", "serbia", "singapore", "slovakia",
	"slovenia", "south africa", "south korea", "spain", "sri lanka", "sweden", "switzerland",
	"taiwan", "tanzania", "thailand", "tunisia", "turkey", "uganda", "ukraine",
	"united arab emirates", "uae", "united kingdom", "uk", "united states", "usa",
	"vietnam", "wales", "zimbabwe",
	// cities
	"abu dhabi", "amsterdam", "athens", "atlanta", "austin", "bangalore", "bengaluru",
	"barcelona", "beijing", "belfast", "berlin", "birmingham", "boston", "bristol",
	"brussels", "bucharest", "budapest", "buenos aires", "cairo", "cambridge", "cape town",
	"cardiff", "casablanca", "chicago", "copenhagen", "dakar", "dallas", "delhi", "new delhi",
	"denver", "doha", "dubai", "dublin", "edinburgh", "frankfurt", "geneva", "glasgow",
	"hamburg", "helsinki", "houston", "istanbul", "jakarta", "johannesburg", "karachi",
	"kyiv", "lagos", "leeds", "lisbon", "liverpool", "london", "los angeles", "lyon",
	"madrid", "manchester", "marseille", "melbourne", "miami", "milan", "montreal", "moscow",
	"mumbai", "munich", "nairobi", "new york", "new york city", "newcastle", "nottingham",
	"oslo", "oxford", "paris", "prague", "rome", "san francisco", "seattle", "seoul",
	"shanghai", "sheffield", "stockholm", "sydney", "tokyo", "toronto", "toulouse",
	"vancouver", "vienna", "warsaw", "washington", "zurich",
	// states and regions
	"california", "texas", "florida", "ontario", "quebec", "bavaria",
}

// institutionHeads start an organization name that may continue with
// "of ..." or "for ...".
var institutionHeads = []string{
	"university", "college", "institute", "school", "academy", "polytechnic", "conservatory",
}

// orgSuffixes end a company or organization name.
var orgSuffixes = []string{
	"inc", "ltd", "llc", "plc", "corp", "corporation", "company", "limited", "gmbh",
	"group", "technologies", "technology", "labs", "laboratories", "bank", "consulting",
	"solutions", "systems", "partners", "agency", "foundation", "hospital", "studios",
	"software", "holdings", "services", "ventures", "associates",
}

// knownOrganizations are single-word organizations without a suffix.
var knownOrganizations = []string{
	"google", "microsoft", "amazon", "apple", "meta", "facebook", "ibm", "oracle", "intel",
	"nvidia", "netflix", "uber", "spotify", "salesforce", "adobe", "cisco", "siemens",
	"deloitte", "accenture", "kpmg", "pwc", "capgemini", "infosys", "wipro", "nhs",
}

var months = []string{
	"jan", "january", "feb", "february", "mar", "march", "apr", "april", "may", "jun",
	"june", "jul", "july", "aug", "august", "sep", "sept", "september", "oct", "october",
	"nov", "november", "dec", "december",
}

// stopwords break organization and person name runs.
var stopwords = []string{
	"a", "an", "and", "as", "at", "by", "for", "from", "in", "into", "is", "of", "on", "or",
	"the", "to", "with", "was", "were", "worked", "working", "where", "while", "during",
	"present", "current", "now", "today", "until",
}

// headingWords never belong to a person name.
var headingWords = []string{
	"education", "experience", "skills", "interests", "extracurricular", "activities",
	"key", "achievements", "personal", "statement", "resume", "cv", "curriculum", "vitae",
	"contact", "profile", "summary", "email", "phone", "mobile", "address", "linkedin",
}

func toSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, s := range list {
			set[s] = struct{}{}
		}
	}
	return set
}
