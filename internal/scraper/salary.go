package scraper

import "regexp"

// salaryPattern recognizes currency-prefixed amounts the way boards
// display them: "$20", "$55,000", "€45k", "$20 - $25", optionally
// followed by a pay period ("per hour", "an hour", "/yr", "a year").
// Amounts without a currency marker are not salaries ("5 days ago",
// "40 hours").
var salaryPattern = regexp.MustCompile(`(?i)[$€£]\s?\d+(?:[,.]\d+)*\s?k?(?:\s?[-–—]\s?[$€£]?\s?\d+(?:[,.]\d+)*\s?k?)?(?:\s?(?:per|an?|/)\s?(?:hour|hr|year|yr|annum|month|mo|week|wk|day))?`)

// ExtractSalary returns the first salary-looking substring of text
// exactly as displayed, or "" when nothing matches. The raw text is
// kept verbatim so "$20 - $25 per hour" survives a round trip through
// the database untouched.
func ExtractSalary(text string) string {
	return salaryPattern.FindString(CleanText(text))
}
