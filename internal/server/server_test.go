package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/askitmo/askitmo/internal/answer"
	"github.com/askitmo/askitmo/internal/config"
	"github.com/askitmo/askitmo/internal/news"
	"github.com/askitmo/askitmo/internal/search"
)

type fakeSynth struct {
	query     string
	queryErr  error
	synthesis answer.Synthesis

	queryCalls int
	synthCalls int
}

func (f *fakeSynth) GenerateQuery(ctx context.Context, question string) (string, error) {
	f.queryCalls++
	return f.query, f.queryErr
}

func (f *fakeSynth) Synthesize(ctx context.Context, question string, results []search.Result, newsItems []news.Item) answer.Synthesis {
	f.synthCalls++
	return f.synthesis
}

type fakeSearch struct {
	results []search.Result
	err     error
	calls   int
	query   string
}

func (f *fakeSearch) Search(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	f.calls++
	f.query = query
	return f.results, f.err
}

func (f *fakeSearch) Name() string    { return "fake" }
func (f *fakeSearch) Validate() error { return nil }

type fakeNews struct {
	items []news.Item
	calls int
}

func (f *fakeNews) Latest(ctx context.Context, maxItems int) []news.Item {
	f.calls++
	return f.items
}

func newTestServer(synth *fakeSynth, sp *fakeSearch, ns *fakeNews) *Server {
	return New(config.DefaultConfig(), synth, sp, ns)
}

func postRequest(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/request", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPredictCampusScenario(t *testing.T) {
	synth := &fakeSynth{
		query: "главный кампус ИТМО",
		synthesis: answer.Synthesis{
			Answer:    nil,
			Reasoning: "YandexGPT. Главный кампус ИТМО находится в Санкт-Петербурге.",
			Sources:   []string{"https://itmo.ru"},
		},
	}
	sp := &fakeSearch{results: []search.Result{{Title: "ИТМО", URL: "https://itmo.ru", Text: "..."}}}
	ns := &fakeNews{}
	s := newTestServer(synth, sp, ns)

	rec := postRequest(t, s, `{"id": 7, "query": "Где находится главный кампус?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp PredictionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.ID != 7 {
		t.Errorf("id = %d, want 7", resp.ID)
	}
	if resp.Answer != nil {
		t.Errorf("answer = %v, want null", *resp.Answer)
	}
	if resp.Reasoning != "YandexGPT. Главный кампус ИТМО находится в Санкт-Петербурге." {
		t.Errorf("reasoning = %q", resp.Reasoning)
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "https://itmo.ru" {
		t.Errorf("sources = %v", resp.Sources)
	}

	if sp.query != "главный кампус ИТМО" {
		t.Errorf("search query = %q", sp.query)
	}
	if ns.calls != 1 {
		t.Errorf("news calls = %d, want 1", ns.calls)
	}
}

func TestPredictValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing id", `{"query": "вопрос"}`},
		{"missing query", `{"id": 1}`},
		{"malformed json", `{"id": `},
		{"wrong id type", `{"id": "one", "query": "вопрос"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := &fakeSynth{}
			s := newTestServer(synth, &fakeSearch{}, &fakeNews{})

			rec := postRequest(t, s, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rec.Code)
			}
			if synth.queryCalls != 0 {
				t.Errorf("query generation was called for invalid body")
			}
		})
	}
}

func TestPredictNoQueryIsClientError(t *testing.T) {
	synth := &fakeSynth{queryErr: answer.ErrNoQuery}
	sp := &fakeSearch{}
	ns := &fakeNews{}
	s := newTestServer(synth, sp, ns)

	rec := postRequest(t, s, `{"id": 1, "query": "вопрос"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error JSON: %v", err)
	}
	if body["detail"] != "Не удалось сгенерировать поисковый запрос." {
		t.Errorf("detail = %q", body["detail"])
	}

	if sp.calls != 0 || ns.calls != 0 || synth.synthCalls != 0 {
		t.Errorf("downstream calls were made: search=%d news=%d synth=%d", sp.calls, ns.calls, synth.synthCalls)
	}
}

func TestPredictInternalErrorIsOpaque(t *testing.T) {
	synth := &fakeSynth{queryErr: errors.New("token leaked: sk-secret")}
	s := newTestServer(synth, &fakeSearch{}, &fakeNews{})

	rec := postRequest(t, s, `{"id": 1, "query": "вопрос"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "sk-secret") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error JSON: %v", err)
	}
	if body["detail"] != "Internal server error" {
		t.Errorf("detail = %q", body["detail"])
	}
}

func TestPredictSourcesDeduplicatedAndCapped(t *testing.T) {
	synth := &fakeSynth{
		query: "q",
		synthesis: answer.Synthesis{
			Reasoning: "ок",
			Sources: []string{
				"https://itmo.ru",
				"https://itmo.ru",
				"https://news.itmo.ru/ru/1",
				"https://itmo.ru/abit",
				"https://itmo.ru/ratings",
			},
		},
	}
	s := newTestServer(synth, &fakeSearch{}, &fakeNews{})

	rec := postRequest(t, s, `{"id": 1, "query": "вопрос"}`)

	var resp PredictionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	expected := []string{"https://itmo.ru", "https://news.itmo.ru/ru/1", "https://itmo.ru/abit"}
	if len(resp.Sources) != len(expected) {
		t.Fatalf("sources = %v, want %v", resp.Sources, expected)
	}
	for i := range expected {
		if resp.Sources[i] != expected[i] {
			t.Errorf("sources[%d] = %q, want %q", i, resp.Sources[i], expected[i])
		}
	}
}

func TestPredictSourcesNeverNull(t *testing.T) {
	synth := &fakeSynth{query: "q", synthesis: answer.Synthesis{Reasoning: "ок"}}
	s := newTestServer(synth, &fakeSearch{}, &fakeNews{})

	rec := postRequest(t, s, `{"id": 1, "query": "вопрос"}`)

	if !strings.Contains(rec.Body.String(), `"sources":[]`) {
		t.Errorf("sources not serialized as empty list: %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeSynth{}, &fakeSearch{}, &fakeNews{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid health JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}
}
