// Package checklist reports which common resume elements appear in a text.
package checklist

import (
	"regexp"
	"strings"
)

type Item struct {
	Label   string `json:"label"`
	Present bool   `json:"present"`
}

type rule struct {
	label    string
	re       *regexp.Regexp
	match    func(text string) bool
	keywords []string
}

const minPhoneDigits = 7

var (
	phoneCandidateRe = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{5,}\d`)
	digitGroupRe     = regexp.MustCompile(`\d+`)
	yearRe           = regexp.MustCompile(`^(19|20)\d\d$`)
)

var rules = []rule{
	{label: "Email address", re: regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)},
	{label: "Phone number", match: hasPhoneNumber},
	{label: "LinkedIn profile", keywords: []string{"linkedin.com", "linkedin"}},
	{label: "GitHub or portfolio", keywords: []string{"github.com", "gitlab.com", "portfolio"}},
	{label: "Summary", keywords: []string{"summary", "profile", "objective", "about me"}},
	{label: "Experience", keywords: []string{"experience", "employment", "work history"}},
	{label: "Education", keywords: []string{"education", "university", "degree", "bachelor", "master"}},
	{label: "Skills", keywords: []string{"skills", "technologies", "tech stack"}},
	{label: "Projects", keywords: []string{"projects", "project"}},
	{label: "Certifications", keywords: []string{"certification", "certificate", "certified"}},
}

// Check scans text for every known element, in a fixed order.
func Check(text string) []Item {
	lower := strings.ToLower(text)
	items := make([]Item, 0, len(rules))
	for _, r := range rules {
		items = append(items, Item{Label: r.label, Present: r.matches(text, lower)})
	}
	return items
}

// Missing returns the labels of elements that were not found.
func Missing(items []Item) []string {
	var out []string
	for _, it := range items {
		if !it.Present {
			out = append(out, it.Label)
		}
	}
	return out
}

func (r rule) matches(text, lower string) bool {
	if r.re != nil && r.re.MatchString(text) {
		return true
	}
	if r.match != nil && r.match(text) {
		return true
	}
	for _, k := range r.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// hasPhoneNumber looks for a run of at least seven digits with the usual
// separators. Runs made only of years, such as "2019 - 2021", do not count.
func hasPhoneNumber(text string) bool {
	for _, candidate := range phoneCandidateRe.FindAllString(text, -1) {
		groups := digitGroupRe.FindAllString(candidate, -1)
		digits := 0
		onlyYears := true
		for _, g := range groups {
			digits += len(g)
			if !yearRe.MatchString(g) {
				onlyYears = false
			}
		}
		if digits >= minPhoneDigits && !onlyYears {
			return true
		}
	}
	return false
}
