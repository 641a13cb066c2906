package parser

import (
	"fmt"
	"strings"

	"resumeqa/internal/types"
)

// BuildQAContext renders parsed resume data as a plain-text context for the
// question-answering model.
func BuildQAContext(d types.ResumeData) string {
	var b strings.Builder

	b.WriteString("Education:\n")
	for _, e := range d.Education {
		fmt.Fprintf(&b, "Date: %s\nPlace: %s\nInstitution: %s\nFormation: %s\nDescription: %s\n\n",
			e.Date, e.Place, e.Institution, e.FormationName, strings.TrimSpace(e.Description))
	}

	b.WriteString("Experience:\n")
	for _, e := range d.Experience {
		fmt.Fprintf(&b, "Date: %s\nPlace: %s\nOrganization: %s\nRole: %s\nDescription: %s\n\n",
			e.Date, e.Place, e.OrgName, e.Role, strings.TrimSpace(e.Description))
	}

	fmt.Fprintf(&b, "Skills:\n%s\n\n", d.Skills)
	fmt.Fprintf(&b, "Key Achievements:\n%s\n\n", d.KeyAchievements)
	fmt.Fprintf(&b, "Personal Statement:\n%s\n\n", d.PersonalStatement)

	b.WriteString("Contact Information:\n")
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone Number: %s\nPortfolio/LinkedIn: %s\n",
		d.Contact.Name, d.Contact.Email, d.Contact.PhoneNumber, d.Contact.ProfileURL)

	return b.String()
}
