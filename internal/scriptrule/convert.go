package scriptrule

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/kousei/pkg/core"
)

// optionsDict exposes rule options to a check function as a frozen dict.
// Values are what the YAML decoder produces.
func optionsDict(opts map[string]any) (*starlark.Dict, error) {
	d := starlark.NewDict(len(opts))
	for k, v := range opts {
		sv, err := toStarlark(v)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", k, err)
		}
		_ = d.SetKey(starlark.String(k), sv)
	}
	d.Freeze()
	return d, nil
}

func toStarlark(v any) (starlark.Value, error) {
	switch v := v.(type) {
	case nil:
		return starlark.None, nil
	case string:
		return starlark.String(v), nil
	case bool:
		return starlark.Bool(v), nil
	case int:
		return starlark.MakeInt(v), nil
	case int64:
		return starlark.MakeInt64(v), nil
	case uint64:
		return starlark.MakeUint64(v), nil
	case float64:
		return starlark.Float(v), nil
	case []string:
		elems := make([]starlark.Value, len(v))
		for i, s := range v {
			elems[i] = starlark.String(s)
		}
		return starlark.NewList(elems), nil
	case []any:
		elems := make([]starlark.Value, len(v))
		for i, item := range v {
			sv, err := toStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			elems[i] = sv
		}
		return starlark.NewList(elems), nil
	case map[string]any:
		return optionsDict(v)
	}
	return nil, fmt.Errorf("values of type %T are not supported", v)
}

// fromStarlark converts what a script returns to plain Go values: string,
// int64, float64, bool, []any, map[string]any or nil.
func fromStarlark(v starlark.Value) (any, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		return string(v), nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.Float:
		return float64(v), nil
	case starlark.Int:
		n, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", v)
		}
		return n, nil
	case *starlark.Dict:
		m := make(map[string]any, v.Len())
		for _, kv := range v.Items() {
			k, ok := kv[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict keys must be strings, got %s", kv[0].Type())
			}
			gv, err := fromStarlark(kv[1])
			if err != nil {
				return nil, fmt.Errorf("%q: %w", string(k), err)
			}
			m[string(k)] = gv
		}
		return m, nil
	case starlark.Indexable:
		out := make([]any, v.Len())
		for i := range out {
			gv, err := fromStarlark(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = gv
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot use a %s here", v.Type())
}

// tokenFields are the keys of a token dict passed to check_tokens.
var tokenFields = [...]string{"surface", "pos", "pos_detail1", "pos_detail2", "lemma", "reading", "from", "to"}

// tokensToStarlark exposes tokens to check_tokens as a frozen list of dicts.
func tokensToStarlark(tokens []core.Token) starlark.Value {
	list := make([]starlark.Value, len(tokens))
	for i, t := range tokens {
		values := [...]starlark.Value{
			starlark.String(t.Surface),
			starlark.String(t.POS),
			starlark.String(t.POSDetail1),
			starlark.String(t.POSDetail2),
			starlark.String(t.Lemma()),
			starlark.String(t.Reading),
			starlark.MakeInt(t.Start),
			starlark.MakeInt(t.End),
		}
		d := starlark.NewDict(len(tokenFields))
		for j, key := range tokenFields {
			_ = d.SetKey(starlark.String(key), values[j])
		}
		list[i] = d
	}
	l := starlark.NewList(list)
	l.Freeze()
	return l
}
