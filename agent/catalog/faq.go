package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// FAQEntry is one question/answer pair with its match keywords.
type FAQEntry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords,omitempty"`
}

type companyInfo struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
}

type faqProduct struct {
	Name string `json:"name"`
}

type faqDocument struct {
	Company  companyInfo  `json:"company"`
	Products []faqProduct `json:"products"`
	FAQ      []FAQEntry   `json:"faq"`
}

// FAQ is the company knowledge base backing the sales agent.
type FAQ struct {
	company  companyInfo
	products []faqProduct
	entries  []FAQEntry
}

func LoadFAQ(path string) *FAQ {
	f := &FAQ{}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("load faq")
		return f
	}
	var doc faqDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("parse faq")
		return f
	}

	f.company = doc.Company
	f.products = doc.Products
	f.entries = doc.FAQ
	return f
}

// Search scores each entry as 2 points per keyword found as a substring
// of the query plus 1 point per question word longer than three
// characters found in the query, and returns the single best entry.
// Ties keep the earlier entry (comparison is strict greater-than, so
// file order decides); a best score of 0 is a miss.
func (f *FAQ) Search(query string) (FAQEntry, bool) {
	q := strings.ToLower(query)

	var best FAQEntry
	bestScore := 0
	for _, entry := range f.entries {
		score := 0
		for _, kw := range entry.Keywords {
			if strings.Contains(q, strings.ToLower(kw)) {
				score += 2
			}
		}
		for _, word := range strings.Fields(strings.ToLower(entry.Question)) {
			if len(word) > 3 && strings.Contains(q, word) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = entry
		}
	}
	return best, bestScore > 0
}

// CompanyOverview is the one-line pitch read when no FAQ entry matched.
func (f *FAQ) CompanyOverview() string {
	name := f.company.Name
	if name == "" {
		name = "Our company"
	}
	return fmt.Sprintf("%s - %s. %s", name, f.company.Tagline, f.company.Description)
}

func (f *FAQ) ProductsSummary() string {
	if len(f.products) == 0 {
		return "We offer a range of solutions for businesses."
	}
	names := make([]string, 0, 3)
	for i, p := range f.products {
		if i == 3 {
			break
		}
		names = append(names, p.Name)
	}
	return fmt.Sprintf("Our main products include %s, and more.", strings.Join(names, ", "))
}
