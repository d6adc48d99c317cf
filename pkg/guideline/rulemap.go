package guideline

// RuleMap maps a rule ID to the guidelines it enforces.
type RuleMap map[string][]ID

// Clone returns a deep copy.
func (m RuleMap) Clone() RuleMap {
	out := make(RuleMap, len(m))
	for k, v := range m {
		out[k] = append([]ID(nil), v...)
	}
	return out
}

// Rule IDs referenced by the default tables. They mirror the IDs in
// pkg/lint/rules; word-repetition and homophone are deliberately absent,
// which makes them guideline-independent.
const (
	ruleNotationConsistency = "notation-consistency"
	ruleRedundantExpression = "redundant-expression"
	ruleRaNuki              = "ra-nuki"
	ruleSaIre               = "sa-ire"
	ruleINuki               = "i-nuki"
	ruleDialogueBrackets    = "dialogue-brackets"
	ruleCounterMismatch     = "counter-mismatch"
	ruleSentenceLength      = "sentence-length"
)

// DefaultRuleMap returns the built-in rule to guideline mapping.
func DefaultRuleMap() RuleMap {
	return RuleMap{
		ruleNotationConsistency: {Okurigana, Gairaigo, Koyobun},
		ruleRedundantExpression: {Koyobun, JTF},
		ruleRaNuki:              {Koyobun, JTF},
		ruleSaIre:               {Koyobun, JTF},
		ruleINuki:               {Koyobun, JTF},
		ruleDialogueBrackets:    {NovelConvention, JTF},
		ruleCounterMismatch:     {Koyobun},
		ruleSentenceLength:      {Koyobun, JTF},
	}
}
