package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"image-studio-server/modules/common/gemini/geminitest"
)

func init() {
	retryDelay = time.Millisecond
}

func TestIs429Error(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Error 429: Too Many Requests"), true},
		{errors.New("RESOURCE_EXHAUSTED"), true},
		{errors.New("Rate Limit exceeded"), true},
		{errors.New("quota exceeded for project"), true},
		{errors.New("400 invalid argument"), false},
	}
	for _, tt := range tests {
		if got := is429Error(tt.err); got != tt.want {
			t.Errorf("is429Error(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestGenerateWithRetryRotatesKeysOn429(t *testing.T) {
	ok := geminitest.TextResponse("done")
	byKey := map[string]*geminitest.Generator{
		"k1": {Err: errors.New("429 rate limit")},
		"k2": {Response: ok},
	}
	factory := func(ctx context.Context, key string) (ContentGenerator, error) {
		return byKey[key], nil
	}

	resp, err := generateWithRetry(context.Background(), []string{"k1", "k2"}, 3, factory, "m", nil, nil)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if resp != ok {
		t.Fatal("expected response from second key")
	}
	if n := len(byKey["k1"].Calls()); n != 3 {
		t.Fatalf("k1 calls = %d, want 3", n)
	}
	if n := len(byKey["k2"].Calls()); n != 1 {
		t.Fatalf("k2 calls = %d, want 1", n)
	}
}

func TestGenerateWithRetryStopsOnOtherErrors(t *testing.T) {
	gen := &geminitest.Generator{Err: errors.New("400 bad request")}
	second := &geminitest.Generator{Response: geminitest.TextResponse("x")}
	factory := func(ctx context.Context, key string) (ContentGenerator, error) {
		if key == "k1" {
			return gen, nil
		}
		return second, nil
	}

	_, err := generateWithRetry(context.Background(), []string{"k1", "k2"}, 3, factory, "m", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("error = %v, want the 400 error", err)
	}
	if len(gen.Calls()) != 1 || len(second.Calls()) != 0 {
		t.Fatalf("calls = %d/%d, want 1/0", len(gen.Calls()), len(second.Calls()))
	}
}

func TestGenerateWithRetryAllKeysExhausted(t *testing.T) {
	factory := func(ctx context.Context, key string) (ContentGenerator, error) {
		if key == "broken" {
			return nil, errors.New("bad key")
		}
		return &geminitest.Generator{Err: errors.New("quota")}, nil
	}

	_, err := generateWithRetry(context.Background(), []string{"broken", "k"}, 2, factory, "m", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "all 2 API keys exhausted") {
		t.Fatalf("error = %v", err)
	}
}

func TestGenerateWithRetryNoKeys(t *testing.T) {
	if _, err := generateWithRetry(context.Background(), nil, 3, nil, "m", nil, nil); err == nil {
		t.Fatal("expected error without keys")
	}
}

func TestFirstImage(t *testing.T) {
	resp := geminitest.ImageResponse([]byte{1, 2, 3}, "")
	img, ok := FirstImage(resp)
	if !ok || len(img.Data) != 3 || img.MIMEType != "image/png" {
		t.Fatalf("FirstImage = %+v, %v", img, ok)
	}

	if _, ok := FirstImage(geminitest.TextResponse("no image")); ok {
		t.Fatal("expected no image in text response")
	}
	if _, ok := FirstImage(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}); ok {
		t.Fatal("expected no image for empty candidate")
	}
	if _, ok := FirstImage(nil); ok {
		t.Fatal("expected no image for nil response")
	}
}

func TestTextSkipsThoughts(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{
			{Text: "thinking...", Thought: true},
			{Text: "CONTENT_ANALYSIS:"},
			{Text: " a cat"},
		}},
	}}}
	if got := Text(resp); got != "CONTENT_ANALYSIS: a cat" {
		t.Fatalf("Text = %q", got)
	}
	if Text(nil) != "" {
		t.Fatal("Text(nil) should be empty")
	}
}
