package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/kousei/internal/testutil"
	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
	_ "github.com/leapstack-labs/kousei/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/kousei/pkg/llm"
	"github.com/leapstack-labs/kousei/pkg/validate"
)

// verdictClient answers every candidate of a prompt with the same verdict.
type verdictClient struct {
	valid bool
}

func (c verdictClient) IsAvailable(context.Context) bool { return true }

func (c verdictClient) Infer(_ context.Context, prompt string, _ llm.InferOptions) (string, error) {
	n := strings.Count(prompt, "### index ")
	entries := make([]string, n)
	for i := range n {
		entries[i] = fmt.Sprintf(`{"index":%d,"valid":%t,"reason":"test"}`, i, c.valid)
	}
	return `{"results":[` + strings.Join(entries, ",") + `]}`, nil
}

func (c verdictClient) InferBatch(ctx context.Context, prompts []string, opts llm.InferOptions) ([]string, error) {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i], _ = c.Infer(ctx, p, opts)
	}
	return out, nil
}

func newTestServer(t *testing.T, v *validate.Validator) *Server {
	t.Helper()
	return New(Config{
		Runner:       lint.NewRunner(lint.WithRules(lint.All()...)),
		Validator:    v,
		Logger:       testutil.NewTestLogger(t),
		MaxBodyBytes: 4096,
		Version:      "test",
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func ruleIDs(issues []core.Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.RuleID
	}
	return out
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestLint(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	tests := []struct {
		name string
		req  LintRequest
		want []string
	}{
		{
			name: "defaults",
			req:  LintRequest{Text: "頭痛が痛いので休みます。"},
			want: []string{"redundant-expression"},
		},
		{
			name: "novel mode skips dialogue",
			req:  LintRequest{Text: "「頭痛が痛い」と言った。", Mode: "novel"},
			want: []string{},
		},
		{
			name: "guideline without the rule",
			req:  LintRequest{Text: "頭痛が痛いので休みます。", Guidelines: []string{"novel-convention"}},
			want: []string{},
		},
		{
			name: "empty text",
			req:  LintRequest{Text: ""},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/lint", tt.req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			resp := decodeBody[LintResponse](t, rec)
			assert.Equal(t, tt.want, ruleIDs(resp.Issues))
			assert.Nil(t, resp.Validation)
		})
	}
}

func TestLint_WithValidation(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		h := newTestServer(t, nil).Handler()
		rec := do(t, h, http.MethodPost, "/v1/lint", LintRequest{Text: "頭痛が痛い。", Validate: true})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).RequestID)
	})

	t.Run("rejected candidates are dropped", func(t *testing.T) {
		h := newTestServer(t, validate.New(verdictClient{valid: false}, validate.Config{})).Handler()
		rec := do(t, h, http.MethodPost, "/v1/lint", LintRequest{Text: "頭痛が痛い。", Validate: true})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[LintResponse](t, rec)
		assert.Empty(t, resp.Issues)
		require.NotNil(t, resp.Validation)
		assert.Equal(t, 1, resp.Validation.Stats.Rejected)
	})

	t.Run("confirmed candidates are kept", func(t *testing.T) {
		h := newTestServer(t, validate.New(verdictClient{valid: true}, validate.Config{})).Handler()
		rec := do(t, h, http.MethodPost, "/v1/lint", LintRequest{Text: "頭痛が痛い。", Validate: true})
		resp := decodeBody[LintResponse](t, rec)
		require.Len(t, resp.Issues, 1)
		assert.Equal(t, core.ValidationConfirmed, resp.Issues[0].Validation)
	})
}

func TestLintDocument(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rec := do(t, h, http.MethodPost, "/v1/lint/document", DocumentRequest{
		Paragraphs: []string{"調査を行う。", "分析を行う。", "報告を行なう。"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[DocumentResponse](t, rec)
	require.Len(t, resp.Paragraphs, 3)
	assert.Empty(t, resp.Paragraphs[0].Issues)
	require.Len(t, resp.Paragraphs[2].Issues, 1)
	assert.Equal(t, "notation-consistency", resp.Paragraphs[2].Issues[0].RuleID)
}

func TestValidateEndpoint(t *testing.T) {
	h := newTestServer(t, validate.New(verdictClient{valid: true}, validate.Config{})).Handler()
	rec := do(t, h, http.MethodPost, "/v1/validate", ValidateRequest{
		Text:   "犬が3人いた。",
		Issues: []core.Issue{{RuleID: "counter-mismatch", From: 3, To: 4, Message: "counter"}},
		Mode:   "novel",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeBody[validate.Result](t, rec)
	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, core.ValidationConfirmed, res.Issues[0].Validation)

	rec = do(t, newTestServer(t, nil).Handler(), http.MethodPost, "/v1/validate", ValidateRequest{})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRulesAndModes(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := do(t, h, http.MethodGet, "/v1/rules", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	infos := decodeBody[[]core.RuleInfo](t, rec)
	assert.Len(t, infos, len(lint.All()))

	rec = do(t, h, http.MethodGet, "/v1/modes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	modes := decodeBody[[]ModeInfo](t, rec)
	var ids []string
	for _, m := range modes {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"novel", "official", "blog", "sns", "academic"}, ids)
}

func TestPatchRule(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := do(t, h, http.MethodPatch, "/v1/rules/redundant-expression", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cfg := decodeBody[core.RuleConfig](t, rec)
	assert.False(t, cfg.Enabled)

	rec = do(t, h, http.MethodPost, "/v1/lint", LintRequest{Text: "頭痛が痛い。"})
	assert.Empty(t, decodeBody[LintResponse](t, rec).Issues)

	rec = do(t, h, http.MethodDelete, "/v1/rules/redundant-expression/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[core.RuleConfig](t, rec).Enabled)

	rec = do(t, h, http.MethodPatch, "/v1/rules/no-such-rule", `{"enabled":false}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBadRequests(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{name: "malformed json", path: "/v1/lint", body: `{"text":`, status: http.StatusBadRequest},
		{name: "unknown field", path: "/v1/lint", body: `{"txt":"a"}`, status: http.StatusBadRequest},
		{name: "too large", path: "/v1/lint", body: `{"text":"` + strings.Repeat("あ", 2000) + `"}`, status: http.StatusRequestEntityTooLarge},
		{name: "missing paragraphs", path: "/v1/lint/document", body: `{}`, status: http.StatusUnprocessableEntity},
		{name: "bad severity", path: "/v1/rules/ra-nuki", body: `{"severity":"fatal"}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodPost
			if strings.HasPrefix(tt.path, "/v1/rules/") {
				method = http.MethodPatch
			}
			rec := do(t, h, method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).Error)
		})
	}
}

func TestMetrics(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rec := do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServeListener_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s := newTestServer(t, nil)

	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
