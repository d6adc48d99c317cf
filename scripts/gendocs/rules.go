package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/guideline"
	"github.com/leapstack-labs/kousei/pkg/lint"
	_ "github.com/leapstack-labs/kousei/pkg/lint/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"grammar":  "Rules about grammatical errors such as ら抜き言葉 and mismatched counters.",
	"style":    "Rules about readability: redundancy, repetition and sentence length.",
	"notation": "Rules about how words are written: okurigana, width and consistent variants.",
	"semantic": "Rules about word choice that depends on meaning, such as homophones.",
}

var groupOrder = []string{"grammar", "style", "notation", "semantic"}

// generateRuleDocs generates the rule and mode reference pages.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	infos := lint.NewRunner(lint.WithRules(lint.All()...)).RuleInfos()
	catalog := guideline.DefaultCatalog()

	if err := generateRulesPage(outDir, infos); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	if err := generateModesPage(outDir, catalog); err != nil {
		return err
	}
	log.Printf("  Generated modes.md")

	return nil
}

// generateRulesPage generates the rule reference page.
func generateRulesPage(outDir string, infos []core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Lint rules for Japanese prose")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("kousei includes %d rules organized into %d groups.", len(infos), len(groupOrder)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Almost certainly wrong"},
			{InlineCode("warning"), "Likely wrong or against the active guidelines"},
			{InlineCode("info"), "Worth a second look"},
		},
	)

	w.Header(2, "Rule Levels")
	w.Table(
		[]string{"Level", "Needs"},
		[][]string{
			{InlineCode("L1"), "Raw text only"},
			{InlineCode("L2"), "Morphological tokens"},
			{InlineCode("L3"), "Tokens and surrounding context"},
			{InlineCode("document"), "Every paragraph of a document"},
		},
	)

	grouped := groupRulesByGroup(infos)
	for _, group := range groupOrder {
		groupRules := grouped[group]
		if len(groupRules) == 0 {
			continue
		}

		w.Line(fmt.Sprintf("## %s {#%s}", capitalizeFirst(group), group))
		w.Newline()
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}
		for _, info := range groupRules {
			writeRuleDoc(w, info)
		}
	}

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateModesPage documents the correction modes and guidelines.
func generateModesPage(outDir string, catalog *guideline.Catalog) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Modes and Guidelines", "Correction modes and style guidelines")
	w.GeneratedMarker()

	w.Header(1, "Modes and Guidelines")
	w.Paragraph("A mode is a preset for a kind of writing: the guidelines it activates and the rule settings it adjusts. " +
		"Rules tied to guidelines only run when one of their guidelines is active.")

	w.Header(2, "Modes")
	var rows [][]string
	for _, m := range catalog.Modes() {
		ids := make([]string, len(m.Guidelines))
		for i, g := range m.Guidelines {
			ids[i] = InlineCode(string(g))
		}
		adjusted := make([]string, 0, len(m.Patches))
		for id := range m.Patches {
			adjusted = append(adjusted, InlineCode(id))
		}
		sort.Strings(adjusted)
		rows = append(rows, []string{InlineCode(string(m.ID)), m.Name, strings.Join(ids, ", "), strings.Join(adjusted, ", "), cleanDescription(m.Description)})
	}
	w.Table([]string{"Mode", "Name", "Guidelines", "Adjusted rules", "Description"}, rows)

	w.Header(2, "Guidelines")
	rows = rows[:0]
	for _, g := range catalog.Guidelines() {
		rows = append(rows, []string{InlineCode(string(g.ID)), g.Name, g.Reference})
	}
	w.Table([]string{"Guideline", "Name", "Reference"}, rows)

	return os.WriteFile(filepath.Join(outDir, "modes.md"), w.Bytes(), 0600)
}

// groupRulesByGroup organizes rules by their Group field, sorted by ID.
func groupRulesByGroup(infos []core.RuleInfo) map[string][]core.RuleInfo {
	grouped := make(map[string][]core.RuleInfo)
	for _, info := range infos {
		grouped[info.Group] = append(grouped[info.Group], info)
	}
	for group := range grouped {
		sort.Slice(grouped[group], func(i, j int) bool {
			return grouped[group][i].ID < grouped[group][j].ID
		})
	}
	return grouped
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, info core.RuleInfo) {
	w.Line(fmt.Sprintf("### %s - %s {#%s}", info.ID, info.Name, info.ID))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s · **Level:** %s", InlineCode(info.DefaultSeverity.String()), InlineCode(info.Level.String())))
	w.Newline()

	w.Paragraph(cleanDescription(info.Description))

	if info.Rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(info.Rationale)
	}
	if info.BadExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("text", info.BadExample)
	}
	if info.GoodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("text", info.GoodExample)
	}
	if len(info.ConfigKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following options: %s",
			InlineCode(strings.Join(info.ConfigKeys, ", "))))
	}
	if len(info.Guidelines) > 0 {
		w.Line(fmt.Sprintf("**Guidelines:** %s", strings.Join(info.Guidelines, ", ")))
		w.Newline()
	}

	w.Line("---")
	w.Newline()
}
