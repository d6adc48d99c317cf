package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/kousei/internal/testutil"
	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/guideline"
	"github.com/leapstack-labs/kousei/pkg/llm"
)

// mockClient is a testify mock of llm.Client. Infer accepts either fixed
// return values or a func(ctx, prompt, opts) (string, error).
type mockClient struct {
	mock.Mock
}

func (m *mockClient) IsAvailable(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *mockClient) Infer(ctx context.Context, prompt string, opts llm.InferOptions) (string, error) {
	ret := m.Called(ctx, prompt, opts)
	if rf, ok := ret.Get(0).(func(context.Context, string, llm.InferOptions) (string, error)); ok {
		return rf(ctx, prompt, opts)
	}
	return ret.String(0), ret.Error(1)
}

func (m *mockClient) InferBatch(ctx context.Context, prompts []string, opts llm.InferOptions) ([]string, error) {
	ret := m.Called(ctx, prompts, opts)
	out, _ := ret.Get(0).([]string)
	return out, ret.Error(1)
}

func newMockClient() *mockClient {
	m := &mockClient{}
	m.On("IsAvailable", mock.Anything).Return(true).Maybe()
	return m
}

// judge answers every candidate in the prompt: rules named "reject-*" are
// invalid, rules named "skip-*" get no entry, everything else is valid.
func judge(_ context.Context, prompt string, _ llm.InferOptions) (string, error) {
	var entries []string
	index := -1
	for _, line := range strings.Split(prompt, "\n") {
		if n, ok := strings.CutPrefix(line, "### index "); ok {
			fmt.Sscanf(n, "%d", &index)
			continue
		}
		rule, ok := strings.CutPrefix(line, "- ルール: ")
		if !ok || index < 0 {
			continue
		}
		switch {
		case strings.HasPrefix(rule, "skip-"):
		case strings.HasPrefix(rule, "reject-"):
			entries = append(entries, fmt.Sprintf(`{"index":%d,"valid":false,"reason":"誤検出"}`, index))
		default:
			entries = append(entries, fmt.Sprintf(`{"index":%d,"valid":true,"reason":"誤り"}`, index))
		}
	}
	return "```json\n{\"results\":[" + strings.Join(entries, ",") + "]}\n```", nil
}

const sampleText = "今日は天気が良いので、公園へ散歩に行った。犬が3人いた。"

func candidates(rules ...string) []core.Issue {
	issues := make([]core.Issue, len(rules))
	for i, r := range rules {
		issues[i] = core.Issue{RuleID: r, Severity: core.SeverityWarning, From: i, To: i + 2, Message: r}
	}
	return issues
}

func ruleIDs(issues []core.Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.RuleID
	}
	return out
}

func TestValidateCandidates_Verdicts(t *testing.T) {
	client := newMockClient()
	client.On("Infer", mock.Anything, mock.Anything, mock.Anything).Return(judge)

	v := New(client, Config{BatchSize: 2, Concurrency: 3}, WithLogger(testutil.NewTestLogger(t)))
	res := v.ValidateCandidates(context.Background(),
		candidates("a", "reject-b", "c", "reject-d", "e"),
		Context{Text: sampleText})

	assert.False(t, res.Cancelled)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, []string{"a", "c", "e"}, ruleIDs(res.Issues), "rejections dropped, order kept")
	for _, is := range res.Issues {
		assert.Equal(t, core.ValidationConfirmed, is.Validation)
	}
	assert.Equal(t, 3, res.Stats.Confirmed)
	assert.Equal(t, 2, res.Stats.Rejected)
	client.AssertNumberOfCalls(t, "Infer", 3)
	client.AssertNotCalled(t, "InferBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateCandidates_FailurePolicy(t *testing.T) {
	failing := func(ctx context.Context, prompt string, opts llm.InferOptions) (string, error) {
		if strings.Contains(prompt, "boom") {
			return "", errors.New("backend exploded")
		}
		return judge(ctx, prompt, opts)
	}

	tests := []struct {
		name   string
		policy FailurePolicy
		want   []string
	}{
		{name: "keep marks unverified", policy: FailureKeep, want: []string{"a", "boom", "skip-c", "d"}},
		{name: "drop removes", policy: FailureDrop, want: []string{"a", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockClient()
			client.On("Infer", mock.Anything, mock.Anything, mock.Anything).Return(failing)

			v := New(client, Config{BatchSize: 1, Concurrency: 2, FailurePolicy: tt.policy})
			res := v.ValidateCandidates(context.Background(), candidates("a", "boom", "skip-c", "d"), Context{Text: sampleText})

			assert.Equal(t, tt.want, ruleIDs(res.Issues))
			for _, is := range res.Issues {
				switch is.RuleID {
				case "a", "d":
					assert.Equal(t, core.ValidationConfirmed, is.Validation)
				default:
					assert.Equal(t, core.ValidationUnverified, is.Validation)
				}
			}
		})
	}
}

func TestValidateCandidates_UnparsableResponse(t *testing.T) {
	client := newMockClient()
	client.On("Infer", mock.Anything, mock.Anything, mock.Anything).Return("判定できませんでした", nil)

	v := New(client, Config{})
	res := v.ValidateCandidates(context.Background(), candidates("a", "b"), Context{Text: sampleText})

	require.Len(t, res.Issues, 2)
	assert.Equal(t, core.ValidationUnverified, res.Issues[0].Validation)
	assert.Equal(t, 2, res.Stats.Unverified)
}

func TestValidateCandidates_Timeout(t *testing.T) {
	client := newMockClient()
	client.On("Infer", mock.Anything, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, _ string, _ llm.InferOptions) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	v := New(client, Config{RequestTimeout: 10 * time.Millisecond})
	res := v.ValidateCandidates(context.Background(), candidates("a"), Context{Text: sampleText})

	assert.False(t, res.Cancelled, "a request timeout is not a cancellation")
	require.Len(t, res.Issues, 1)
	assert.Equal(t, core.ValidationUnverified, res.Issues[0].Validation)
}

func TestValidateCandidates_Unavailable(t *testing.T) {
	client := &mockClient{}
	client.On("IsAvailable", mock.Anything).Return(false)

	v := New(client, Config{})
	res := v.ValidateCandidates(context.Background(), candidates("a", "b"), Context{Text: sampleText})

	assert.Equal(t, []string{"a", "b"}, ruleIDs(res.Issues))
	for _, is := range res.Issues {
		assert.Equal(t, core.ValidationUnverified, is.Validation)
	}
	client.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateCandidates_NilClient(t *testing.T) {
	v := New(nil, Config{})
	res := v.ValidateCandidates(context.Background(), candidates("a"), Context{Text: sampleText})
	require.Len(t, res.Issues, 1)
	assert.Equal(t, core.ValidationUnverified, res.Issues[0].Validation)
}

func TestValidateCandidates_Empty(t *testing.T) {
	client := newMockClient()
	v := New(client, Config{})
	res := v.ValidateCandidates(context.Background(), nil, Context{})
	assert.Empty(t, res.Issues)
	assert.NotNil(t, res.Issues)
	client.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateCandidates_CancelledBeforeStart(t *testing.T) {
	client := newMockClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := New(client, Config{})
	res := v.ValidateCandidates(ctx, candidates("a", "b"), Context{Text: sampleText})

	assert.True(t, res.Cancelled)
	assert.Empty(t, res.Issues)
	assert.Equal(t, 2, res.Stats.Discarded)
	client.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateCandidates_CancelledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	client := newMockClient()
	client.On("Infer", mock.Anything, mock.Anything, mock.Anything).Return(
		func(c context.Context, prompt string, opts llm.InferOptions) (string, error) {
			if calls.Add(1) == 2 {
				cancel()
				return "", c.Err()
			}
			return judge(c, prompt, opts)
		})

	v := New(client, Config{BatchSize: 1, Concurrency: 1})
	res := v.ValidateCandidates(ctx, candidates("a", "b", "c"), Context{Text: sampleText})

	assert.True(t, res.Cancelled)
	assert.Equal(t, []string{"a"}, ruleIDs(res.Issues), "only the resolved batch survives")
	assert.Equal(t, core.ValidationConfirmed, res.Issues[0].Validation)
	assert.Equal(t, 2, res.Stats.Discarded)
	assert.Equal(t, int32(2), calls.Load(), "no request starts after cancellation")
}

func TestValidateCandidates_Cache(t *testing.T) {
	client := newMockClient()
	client.On("Infer", mock.Anything, mock.Anything, mock.Anything).Return(judge)

	cache := NewMemoryCache(time.Hour, 100)
	v := New(client, Config{BatchSize: 10}, WithCache(cache))
	vctx := Context{Text: sampleText, Mode: "novel", Guidelines: []guideline.ID{"jtf"}}
	issues := candidates("a", "reject-b")

	first := v.ValidateCandidates(context.Background(), issues, vctx)
	second := v.ValidateCandidates(context.Background(), issues, vctx)

	assert.Equal(t, ruleIDs(first.Issues), ruleIDs(second.Issues))
	assert.Equal(t, 2, second.Stats.CacheHits)
	assert.Equal(t, 2, cache.Len())
	client.AssertNumberOfCalls(t, "Infer", 1)
}

func TestValidateCandidates_PromptCarriesContext(t *testing.T) {
	var prompt string
	client := newMockClient()
	client.On("Infer", mock.Anything, mock.Anything, mock.MatchedBy(func(o llm.InferOptions) bool {
		return o.JSON
	})).Return(func(ctx context.Context, p string, o llm.InferOptions) (string, error) {
		prompt = p
		return judge(ctx, p, o)
	})

	issue := core.Issue{
		RuleID: "counter-mismatch", From: 24, To: 25,
		Message: "counter", LocalizedMessage: "「犬」に「人」は使いません",
		Fix: &core.Fix{Replacement: "匹"},
	}
	v := New(client, Config{ContextRadius: 3})
	v.ValidateCandidates(context.Background(), []core.Issue{issue},
		Context{Text: sampleText, Mode: "novel", Guidelines: []guideline.ID{"koyobun", "jtf"}})

	assert.Contains(t, prompt, "- ルール: counter-mismatch")
	assert.Contains(t, prompt, "- 範囲: 24〜25")
	assert.Contains(t, prompt, "- 指摘: 「犬」に「人」は使いません")
	assert.Contains(t, prompt, "- 修正案: 匹")
	assert.Contains(t, prompt, "- 文脈: …犬が3【人】いた。")
	assert.Contains(t, prompt, "novel")
	assert.Contains(t, prompt, "koyobun, jtf")
}

func TestConfig_Defaults(t *testing.T) {
	cfg := New(nil, Config{FailurePolicy: "bogus"}).Config()
	assert.Equal(t, DefaultConfig(), cfg)
}
