package rules

// Import all rule subpackages to register them with the global registry.
// This file triggers all init() functions in the rule packages.
import (
	_ "github.com/leapstack-labs/kousei/pkg/lint/rules/grammar"
	_ "github.com/leapstack-labs/kousei/pkg/lint/rules/notation"
	_ "github.com/leapstack-labs/kousei/pkg/lint/rules/semantic"
	_ "github.com/leapstack-labs/kousei/pkg/lint/rules/style"
)
