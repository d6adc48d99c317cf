// Package tokenizer adapts morphological analyzers to lint.Tokenizer.
//
// Kagome wraps the kagome analyzer with the IPA dictionary. The dictionary
// is large, so it is loaded on first use and shared by all callers of the
// same Kagome value.
package tokenizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/sync/singleflight"

	"github.com/leapstack-labs/kousei/pkg/core"
)

// Func adapts a plain function to lint.Tokenizer.
type Func func(ctx context.Context, text string) ([]core.Token, error)

// Tokenize calls f.
func (f Func) Tokenize(ctx context.Context, text string) ([]core.Token, error) {
	return f(ctx, text)
}

// Kagome tokenizes with kagome and the IPA dictionary.
type Kagome struct {
	once sync.Once
	tk   *tokenizer.Tokenizer
	err  error

	group  singleflight.Group
	logger *slog.Logger
}

// Option configures Kagome.
type Option func(*Kagome)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(k *Kagome) {
		if l != nil {
			k.logger = l
		}
	}
}

// NewKagome returns a tokenizer that loads its dictionary lazily.
func NewKagome(opts ...Option) *Kagome {
	k := &Kagome{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Warm loads the dictionary now instead of on the first Tokenize call.
func (k *Kagome) Warm() error {
	k.once.Do(k.load)
	return k.err
}

func (k *Kagome) load() {
	start := time.Now()
	k.tk, k.err = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if k.err != nil {
		k.err = fmt.Errorf("load ipa dictionary: %w", k.err)
		return
	}
	k.logger.Debug("tokenizer ready", slog.Duration("elapsed", time.Since(start)))
}

// Tokenize splits text into morphemes. Concurrent calls for the same text
// share one analysis.
func (k *Kagome) Tokenize(ctx context.Context, text string) ([]core.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := k.Warm(); err != nil {
		return nil, err
	}
	v, err, _ := k.group.Do(text, func() (any, error) {
		return convert(k.tk.Tokenize(text)), nil
	})
	if err != nil {
		return nil, err
	}
	tokens := v.([]core.Token)
	out := make([]core.Token, len(tokens))
	copy(out, tokens)
	return out, nil
}

// convert maps kagome tokens to core tokens. IPA features are
// [POS, detail1, detail2, detail3, conjugation type, conjugation form,
// basic form, reading, pronunciation]; "*" marks an empty field.
func convert(in []tokenizer.Token) []core.Token {
	out := make([]core.Token, 0, len(in))
	for _, t := range in {
		if t.Class == tokenizer.DUMMY {
			continue
		}
		pos := t.POS()
		tok := core.Token{
			Surface: t.Surface,
			POS:     field(pos, 0),
			Start:   t.Start,
			End:     t.End,
		}
		tok.POSDetail1 = field(pos, 1)
		tok.POSDetail2 = field(pos, 2)
		tok.POSDetail3 = field(pos, 3)
		tok.ConjugationType = optional(t.InflectionalType())
		tok.ConjugationForm = optional(t.InflectionalForm())
		tok.BasicForm = optional(t.BaseForm())
		tok.Reading = optional(t.Reading())
		out = append(out, tok)
	}
	return out
}

func field(values []string, i int) string {
	if i >= len(values) || values[i] == "*" {
		return ""
	}
	return values[i]
}

func optional(v string, ok bool) string {
	if !ok || v == "*" {
		return ""
	}
	return v
}
