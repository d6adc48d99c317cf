package guideline

import "github.com/leapstack-labs/kousei/pkg/core"

// ModeID identifies a correction mode.
type ModeID string

// Known correction modes.
const (
	ModeNovel    ModeID = "novel"
	ModeOfficial ModeID = "official"
	ModeBlog     ModeID = "blog"
	ModeSNS      ModeID = "sns"
	ModeAcademic ModeID = "academic"
)

// Mode is a writing-context preset: the guidelines that apply by default and
// per-rule configuration adjustments.
type Mode struct {
	ID          ModeID                          `json:"id"`
	Name        string                          `json:"name"`
	Description string                          `json:"description"`
	Guidelines  []ID                            `json:"guidelines"`
	Patches     map[string]core.RuleConfigPatch `json:"patches,omitempty"`
}

// Patch returns the mode's adjustment for ruleID.
func (m Mode) Patch(ruleID string) (core.RuleConfigPatch, bool) {
	p, ok := m.Patches[ruleID]
	return p, ok
}

var contractionRules = []string{ruleRaNuki, ruleSaIre, ruleINuki}

func contractions(p core.RuleConfigPatch) map[string]core.RuleConfigPatch {
	out := make(map[string]core.RuleConfigPatch, len(contractionRules))
	for _, id := range contractionRules {
		out[id] = p
	}
	return out
}

func defaultModes() []Mode {
	novel := contractions(core.RuleConfigPatch{SkipDialogue: core.Ptr(true)})
	novel[ruleSentenceLength] = core.RuleConfigPatch{Enabled: core.Ptr(false)}
	novel[ruleRedundantExpression] = core.RuleConfigPatch{SkipDialogue: core.Ptr(true)}

	official := contractions(core.RuleConfigPatch{Severity: core.Ptr(core.SeverityError)})
	official[ruleSentenceLength] = core.RuleConfigPatch{Options: map[string]any{"max_length": 80}}

	sns := map[string]core.RuleConfigPatch{
		ruleSentenceLength: {Enabled: core.Ptr(false)},
		ruleINuki:          {Enabled: core.Ptr(false)},
		ruleRaNuki:         {Severity: core.Ptr(core.SeverityInfo)},
	}

	academic := contractions(core.RuleConfigPatch{Severity: core.Ptr(core.SeverityError)})
	academic[ruleSentenceLength] = core.RuleConfigPatch{Options: map[string]any{"max_length": 150}}

	return []Mode{
		{
			ID:          ModeNovel,
			Name:        "小説",
			Description: "Fiction. Colloquial speech inside dialogue is left alone.",
			Guidelines:  []ID{NovelConvention, JTF},
			Patches:     novel,
		},
		{
			ID:          ModeOfficial,
			Name:        "公用文",
			Description: "Official documents following government notation standards.",
			Guidelines:  []ID{Koyobun, Okurigana, Gairaigo, JoyoKanji},
			Patches:     official,
		},
		{
			ID:          ModeBlog,
			Name:        "ブログ",
			Description: "Web articles; readable, moderately formal prose.",
			Guidelines:  []ID{JTF},
			Patches: map[string]core.RuleConfigPatch{
				ruleSentenceLength:      {Options: map[string]any{"max_length": 120}},
				ruleNotationConsistency: {Severity: core.Ptr(core.SeverityInfo)},
			},
		},
		{
			ID:          ModeSNS,
			Name:        "SNS",
			Description: "Short social posts; only clear mistakes are reported.",
			Guidelines:  []ID{JTF},
			Patches:     sns,
		},
		{
			ID:          ModeAcademic,
			Name:        "論文",
			Description: "Academic papers and reports.",
			Guidelines:  []ID{Koyobun, JTF, JoyoKanji},
			Patches:     academic,
		},
	}
}
