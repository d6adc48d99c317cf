package scriptrule

import (
	"go.starlark.net/starlark"

	"github.com/leapstack-labs/kousei/pkg/textutil"
)

// predeclared returns the builtins available to rule scripts.
func predeclared() starlark.StringDict {
	return starlark.StringDict{
		"find_all":  starlark.NewBuiltin("find_all", findAll),
		"rune_len":  starlark.NewBuiltin("rune_len", runeLen),
		"sentences": starlark.NewBuiltin("sentences", sentences),
	}
}

// findAll returns (from, to) rune offsets of every non-overlapping
// occurrence of pattern in text.
func findAll(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text, pattern string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text, "pattern", &pattern); err != nil {
		return nil, err
	}
	needle := []rune(pattern)
	starts := textutil.IndexAll([]rune(text), needle)
	out := make([]starlark.Value, len(starts))
	for i, s := range starts {
		out[i] = starlark.Tuple{starlark.MakeInt(s), starlark.MakeInt(s + len(needle))}
	}
	return starlark.NewList(out), nil
}

// runeLen returns the length of text in runes, unlike len which counts bytes.
func runeLen(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
		return nil, err
	}
	return starlark.MakeInt(textutil.RuneLen(text)), nil
}

// sentences splits text like the built-in rules do and returns dicts with
// from, to and text.
func sentences(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
		return nil, err
	}
	split := textutil.SplitSentences(text)
	out := make([]starlark.Value, len(split))
	for i, s := range split {
		d := starlark.NewDict(3)
		_ = d.SetKey(starlark.String("from"), starlark.MakeInt(s.Start))
		_ = d.SetKey(starlark.String("to"), starlark.MakeInt(s.End))
		_ = d.SetKey(starlark.String("text"), starlark.String(s.Text))
		out[i] = d
	}
	return starlark.NewList(out), nil
}
