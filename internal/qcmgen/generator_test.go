package qcmgen

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/qcm/internal/llm"
	"github.com/abhisek/qcm/internal/question"
)

func batchJSON(items ...string) json.RawMessage {
	return json.RawMessage(`{"qcm":[` + strings.Join(items, ",") + `]}`)
}

const (
	httpsPort = `{"question":"Which port does HTTPS use by default?","choices":["80","443","22"],"answer":[1]}`
	udpProtos = `{"question":"Which protocols run over UDP?","choices":["DNS","QUIC","SSH","SMTP"],"answer":[1,0,0]}`
	sshPort   = `{"question":"Which port does SSH use by default?","choices":["21","22","25"],"answer":[1]}`
	allRight  = `{"question":"Which are layers of the OSI model?","choices":["Network","Transport"],"answer":[0,1]}`
	badIndex  = `{"question":"Broken question","choices":["a","b"],"answer":[7]}`
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	return cfg
}

func TestGenerate_HappyPath(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(httpsPort, udpProtos)})
	gen := New(mock, testConfig(), nil)

	res, err := gen.Generate(context.Background(), Request{Topic: "networking", Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(res.Questions))
	}
	if res.Rounds != 1 {
		t.Errorf("rounds = %d, want 1", res.Rounds)
	}
	udp := res.Questions[1]
	if len(udp.Answer) != 2 || udp.Answer[0] != 0 || udp.Answer[1] != 1 {
		t.Errorf("answer = %v, want normalized [0 1]", udp.Answer)
	}
	if udp.Source != "" {
		t.Errorf("source = %q, want empty", udp.Source)
	}

	call := mock.Requests()[0]
	if call.Schema != BatchSchema {
		t.Error("expected batch schema on request")
	}
	if !strings.Contains(call.Messages[0].Content, "Topic: networking") {
		t.Errorf("user message missing topic:\n%s", call.Messages[0].Content)
	}
	if !strings.Contains(call.Messages[0].Content, "Number of questions: 2") {
		t.Errorf("user message missing count:\n%s", call.Messages[0].Content)
	}
}

func TestGenerate_TopsUpShortfall(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: batchJSON(httpsPort, badIndex)},
		llm.MockResponse{Content: batchJSON(httpsPort, sshPort)},
	)
	gen := New(mock, testConfig(), nil)

	res, err := gen.Generate(context.Background(), Request{Topic: "ports", Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(res.Questions))
	}
	if res.Rounds != 2 {
		t.Errorf("rounds = %d, want 2", res.Rounds)
	}
	if len(res.Rejected) != 2 {
		t.Errorf("rejected = %v, want malformed + duplicate", res.Rejected)
	}

	second := mock.Requests()[1].Messages[0].Content
	if !strings.Contains(second, "Number of questions: 1") {
		t.Errorf("second round should ask for the shortfall:\n%s", second)
	}
	if !strings.Contains(second, "Which port does HTTPS use by default?") {
		t.Errorf("second round should list accepted prompts:\n%s", second)
	}
}

func TestGenerate_SkipsExistingPrompts(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(httpsPort, sshPort)})
	gen := New(mock, testConfig(), nil)

	res, err := gen.Generate(context.Background(), Request{
		Topic:    "ports",
		Count:    2,
		Existing: []string{"which port  does HTTPS use by default?"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 1 || !strings.Contains(res.Questions[0].Text, "SSH") {
		t.Fatalf("questions = %+v, want only the SSH one", res.Questions)
	}
}

func TestGenerate_TrimsToCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(httpsPort, sshPort, udpProtos)})
	gen := New(mock, testConfig(), nil)

	res, err := gen.Generate(context.Background(), Request{Topic: "net", Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(res.Questions))
	}
}

func TestGenerate_AllChoicesCorrectRejected(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(allRight, sshPort)})
	cfg := testConfig()
	cfg.MaxRounds = 1
	gen := New(mock, cfg, nil)

	res, err := gen.Generate(context.Background(), Request{Topic: "osi", Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(res.Questions))
	}
	var verr *ValidationError
	if len(res.Rejected) != 1 || !errors.As(res.Rejected[0], &verr) || verr.Validator != "structural" {
		t.Errorf("rejected = %v, want one structural rejection", res.Rejected)
	}
}

func TestGenerate_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
		llm.MockResponse{Content: json.RawMessage(`not json`)},
	)
	cfg := testConfig()
	cfg.MaxRounds = 2
	gen := New(mock, cfg, nil)

	_, err := gen.Generate(context.Background(), Request{Topic: "x", Count: 1})
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	var pe *question.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected wrapped ParseError, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2", mock.CallCount())
	}
}

func TestGenerate_InvalidRequest(t *testing.T) {
	gen := New(llm.NewMockProvider(), testConfig(), nil)
	if _, err := gen.Generate(context.Background(), Request{Count: 3}); err == nil {
		t.Error("expected error for empty topic")
	}
	if _, err := gen.Generate(context.Background(), Request{Topic: "x"}); err == nil {
		t.Error("expected error for zero count")
	}
}

func TestGenerate_PurposeLabel(t *testing.T) {
	rec := &purposeRecorder{inner: llm.NewMockProvider(llm.MockResponse{Content: batchJSON(sshPort)})}
	gen := New(rec, testConfig(), nil)

	if _, err := gen.Generate(context.Background(), Request{Topic: "ssh", Count: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.purpose != Purpose {
		t.Errorf("purpose = %q, want %q", rec.purpose, Purpose)
	}
}

type purposeRecorder struct {
	inner   llm.Provider
	purpose string
}

func (p *purposeRecorder) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.purpose = llm.PurposeFrom(ctx)
	return p.inner.Generate(ctx, req)
}

func (p *purposeRecorder) ModelID() string { return p.inner.ModelID() }

func TestBatchSchema_ClosedAndBounded(t *testing.T) {
	def := BatchSchema.Definition
	if def["additionalProperties"] != false {
		t.Error("top level must forbid additional properties")
	}
	qcm := def["properties"].(map[string]any)["qcm"].(map[string]any)
	if qcm["minItems"] != 1 {
		t.Errorf("qcm.minItems = %v, want 1", qcm["minItems"])
	}
	item := qcm["items"].(map[string]any)
	if item["additionalProperties"] != false {
		t.Error("items must forbid additional properties")
	}
	if _, ok := question.FileDefinition()["additionalProperties"]; ok {
		t.Error("building the batch schema must not modify the file schema")
	}
}

func TestChoiceValidator(t *testing.T) {
	tests := []struct {
		name    string
		choices []string
		wantErr bool
	}{
		{"distinct", []string{"a", "b", "c"}, false},
		{"blank", []string{"a", "  "}, true},
		{"repeat ignoring case", []string{"TCP", "tcp "}, true},
		{"too long", []string{"a", strings.Repeat("x", maxChoiceLen+1)}, true},
	}
	v := &ChoiceValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(question.Question{Text: "q", Choices: tt.choices, Answer: []int{0}})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 5); got != "None" {
		t.Errorf("empty = %q, want None", got)
	}
	got := buildDedup([]string{"a", "b", "c"}, 2)
	if got != "1. b\n2. c" {
		t.Errorf("got %q, want the two most recent", got)
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"TCP/IP basics":  "tcp-ip-basics.json",
		"  Go channels ": "go-channels.json",
		"Réseaux":        "réseaux.json",
		"!!!":            "generated.json",
	}
	for topic, want := range tests {
		if got := FileName(topic); got != want {
			t.Errorf("FileName(%q) = %q, want %q", topic, got, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("rl", "DNS", ""); got != filepath.Join("rl", "dns.json") {
		t.Errorf("got %q", got)
	}
	if got := OutputPath("rl", "DNS", "/tmp/x.json"); got != "/tmp/x.json" {
		t.Errorf("explicit out ignored: %q", got)
	}
}

func TestOfflineBatch_FeedsGenerator(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Fallback = OfflineBatch
	gen := New(mock, testConfig(), nil)

	res, err := gen.Generate(context.Background(), Request{Topic: "DNS", Count: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Questions) != 3 || len(res.Rejected) != 0 {
		t.Fatalf("got %d questions, rejected %v", len(res.Questions), res.Rejected)
	}
	for _, q := range res.Questions {
		if !strings.Contains(q.Text, "DNS") {
			t.Errorf("question %q does not mention the topic", q.Text)
		}
	}
	if res.Questions[0].Text == res.Questions[1].Text {
		t.Error("offline questions should be distinct")
	}
}
