package generate

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"google.golang.org/genai"

	"image-studio-server/modules/common/gemini/geminitest"
	"image-studio-server/modules/prompt"
)

func boolPtr(b bool) *bool { return &b }

func TestSettingsFromDefaults(t *testing.T) {
	s := SettingsFrom(&GenerateRequest{Prompt: "cat"})
	want := Settings{Style: "None", AspectRatio: "Default", Variants: 2, QualityBoost: true, AutoEnhance: true}
	if s != want {
		t.Fatalf("settings = %+v, want %+v", s, want)
	}

	s = SettingsFrom(&GenerateRequest{Variants: 9, QualityBoost: boolPtr(false), AutoEnhance: boolPtr(false)})
	if s.Variants != MaxVariants || s.QualityBoost || s.AutoEnhance {
		t.Fatalf("settings = %+v", s)
	}
}

func TestBuildPrompts(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		batch []string
		s     Settings
		want  []string
	}{
		{
			name: "auto enhance",
			base: "a cat",
			s:    Settings{Style: "Photorealistic", AspectRatio: "Default", QualityBoost: false, AutoEnhance: true},
			want: []string{"a cat, ultra-realistic, high-definition, professional photography, sharp details"},
		},
		{
			name: "raw prompt when auto enhance is off",
			base: "a cat",
			s:    Settings{Style: "Photorealistic", AspectRatio: "Square (1:1)", QualityBoost: true, AutoEnhance: false},
			want: []string{"a cat"},
		},
		{
			name:  "batch prompts are used verbatim",
			base:  "ignored",
			batch: []string{"Professional headshot", "  ", "Casual outdoor portrait "},
			s:     Settings{Style: "Photorealistic", AspectRatio: "Default", QualityBoost: true, AutoEnhance: true, BatchMode: true},
			want:  []string{"Professional headshot", "Casual outdoor portrait"},
		},
		{
			name:  "empty batch falls back to single prompt",
			base:  "a cat",
			batch: []string{" "},
			s:     Settings{Style: "None", AspectRatio: "Default", QualityBoost: true, AutoEnhance: true, BatchMode: true},
			want:  []string{"a cat, " + prompt.QualitySuffix},
		},
		{
			name:  "batch prompts ignored outside batch mode",
			base:  "a cat",
			batch: []string{"a dog"},
			s:     Settings{Style: "None", AspectRatio: "Default", AutoEnhance: false},
			want:  []string{"a cat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildPrompts(tt.base, tt.batch, tt.s)
			if err != nil {
				t.Fatalf("BuildPrompts error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("BuildPrompts = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildPromptsUnknownStyle(t *testing.T) {
	_, err := BuildPrompts("a cat", nil, Settings{Style: "Cubism", AspectRatio: "Default", AutoEnhance: true})
	if !errors.Is(err, prompt.ErrUnknownOption) {
		t.Fatalf("err = %v, want ErrUnknownOption", err)
	}
}

func TestGenerateRunsOneCallPerVariant(t *testing.T) {
	fake := &geminitest.Generator{Response: geminitest.ImageResponse([]byte("img"), "image/png")}
	svc := NewService(fake, "image-model")

	images, err := svc.Generate(context.Background(), "a cat", 3, "Widescreen (16:9)")
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("images = %d, want 3", len(images))
	}

	calls := fake.Calls()
	if len(calls) != 3 {
		t.Fatalf("calls = %d, want 3", len(calls))
	}
	c := calls[0]
	if c.Model != "image-model" || c.Prompt() != "a cat" {
		t.Fatalf("call = %+v", c)
	}
	if c.Config.ImageConfig == nil || c.Config.ImageConfig.AspectRatio != "16:9" {
		t.Fatalf("image config = %+v", c.Config.ImageConfig)
	}
	if len(c.Config.SafetySettings) != 1 {
		t.Fatalf("safety settings = %v", c.Config.SafetySettings)
	}
}

func TestGenerateDefaultRatioHasNoImageConfig(t *testing.T) {
	fake := &geminitest.Generator{Response: geminitest.ImageResponse([]byte("img"), "image/png")}
	NewService(fake, "m").Generate(context.Background(), "a cat", 1, "Default")

	if cfg := fake.Calls()[0].Config; cfg.ImageConfig != nil {
		t.Fatalf("image config = %+v, want nil", cfg.ImageConfig)
	}
}

func TestGenerateSkipsTextOnlyResponses(t *testing.T) {
	fake := &geminitest.Generator{Response: geminitest.TextResponse("I cannot draw that")}
	images, err := NewService(fake, "m").Generate(context.Background(), "a cat", 2, "Default")
	if err != nil || len(images) != 0 {
		t.Fatalf("images = %d err = %v", len(images), err)
	}
}

func TestGenerateStopsOnErrorKeepingPartialResults(t *testing.T) {
	n := 0
	fake := &geminitest.Generator{Respond: func(geminitest.Call) (*genai.GenerateContentResponse, error) {
		n++
		if n == 2 {
			return nil, errors.New("backend down")
		}
		return geminitest.ImageResponse([]byte("img"), "image/png"), nil
	}}

	images, err := NewService(fake, "m").Generate(context.Background(), "a cat", 4, "Default")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(images) != 1 || len(fake.Calls()) != 2 {
		t.Fatalf("images = %d calls = %d", len(images), len(fake.Calls()))
	}
}

func TestGenerateAllContinuesAfterFailedPrompt(t *testing.T) {
	fake := &geminitest.Generator{Respond: func(c geminitest.Call) (*genai.GenerateContentResponse, error) {
		if c.Prompt() == "bad" {
			return nil, errors.New("blocked")
		}
		return geminitest.ImageResponse([]byte(c.Prompt()), "image/png"), nil
	}}

	images, err := NewService(fake, "m").GenerateAll(context.Background(), []string{"good", "bad", "fine"}, 1, "Default")
	if err == nil {
		t.Fatal("expected last error to be reported")
	}
	if len(images) != 2 || string(images[0].Data) != "good" || string(images[1].Data) != "fine" {
		t.Fatalf("images = %+v", images)
	}
}
