package lint

import "strings"

// DefaultDocsBaseURL is where the rule reference written by scripts/gendocs
// is published.
const DefaultDocsBaseURL = "https://kousei.dev/docs/rules"

var docsBaseURL = DefaultDocsBaseURL

// SetDocsBaseURL points rule documentation links at a mirror, such as a
// locally served docs/rules. An empty url restores the default.
func SetDocsBaseURL(url string) {
	if url == "" {
		docsBaseURL = DefaultDocsBaseURL
		return
	}
	docsBaseURL = strings.TrimSuffix(url, "/")
}

// DocURL returns the documentation link of a built-in rule.
func DocURL(ruleID string) string {
	return docsBaseURL + "/" + strings.ToLower(ruleID)
}
