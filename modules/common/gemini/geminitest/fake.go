// Package geminitest provides an in-memory ContentGenerator for handler and service tests.
package geminitest

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// Call captures one GenerateContent invocation.
type Call struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

// Prompt returns the concatenated text parts of the call.
func (c Call) Prompt() string {
	var s string
	for _, content := range c.Contents {
		for _, part := range content.Parts {
			s += part.Text
		}
	}
	return s
}

// ImageCount returns the number of inline images sent with the call.
func (c Call) ImageCount() int {
	n := 0
	for _, content := range c.Contents {
		for _, part := range content.Parts {
			if part.InlineData != nil {
				n++
			}
		}
	}
	return n
}

// Generator replays a fixed response (or error) and records every call.
type Generator struct {
	Response *genai.GenerateContentResponse
	Err      error
	// Respond, when set, overrides Response/Err.
	Respond func(call Call) (*genai.GenerateContentResponse, error)

	mu    sync.Mutex
	calls []Call
}

func (g *Generator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	call := Call{Model: model, Contents: contents, Config: config}
	g.mu.Lock()
	g.calls = append(g.calls, call)
	g.mu.Unlock()

	if g.Respond != nil {
		return g.Respond(call)
	}
	return g.Response, g.Err
}

// Calls returns a copy of the recorded calls.
func (g *Generator) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// ImageResponse builds a response carrying one inline image.
func ImageResponse(data []byte, mimeType string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: "model",
				Parts: []*genai.Part{
					{Text: "here you go"},
					{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}},
				},
			},
		}},
	}
}

// TextResponse builds a response carrying the given text parts.
func TextResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}
