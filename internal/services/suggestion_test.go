package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeGemini struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, f.err
}

func (f *fakeGemini) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestGenerateCVContent(t *testing.T) {
	ctx := context.Background()

	t.Run("missing job title makes no call", func(t *testing.T) {
		gemini := &fakeGemini{}
		_, err := NewSuggestionService(gemini).GenerateCVContent(ctx, CVContentRequest{JobTitle: "  "})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
		if len(gemini.prompts) != 0 {
			t.Error("model was called without a job title")
		}
	})

	t.Run("job title alone is enough", func(t *testing.T) {
		gemini := &fakeGemini{response: "```json\n{\"suggestedContent\": \"Managed monthly closing.\"}\n```"}
		resp, err := NewSuggestionService(gemini).GenerateCVContent(ctx, CVContentRequest{JobTitle: "Accountant"})
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if resp.SuggestedContent != "Managed monthly closing." {
			t.Errorf("SuggestedContent = %q", resp.SuggestedContent)
		}
		if !strings.Contains(gemini.prompts[0], "Job Title: Accountant") || !strings.Contains(gemini.prompts[0], "Skills: N/A") {
			t.Errorf("prompt = %q", gemini.prompts[0])
		}
	})

	t.Run("skills are listed in the prompt", func(t *testing.T) {
		gemini := &fakeGemini{response: `{"suggestedContent": "x"}`}
		_, err := NewSuggestionService(gemini).GenerateCVContent(ctx, CVContentRequest{
			JobTitle: "Accountant",
			Skills:   []string{"Excel", "IFRS"},
		})
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if !strings.Contains(gemini.prompts[0], "- Excel\n- IFRS") {
			t.Errorf("prompt = %q", gemini.prompts[0])
		}
	})
}

func TestScoreATSCompatibility(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		cvText    string
		response  string
		upstream  error
		wantErr   error
		wantScore float64
	}{
		{name: "empty text", cvText: "", wantErr: ErrInvalidRequest},
		{name: "score out of range passes through", cvText: "CV", response: `{"score": 120, "feedback": "Good"}`, wantScore: 120},
		{name: "typical score", cvText: "CV", response: `{"score": 72.5, "feedback": "Add keywords"}`, wantScore: 72.5},
		{name: "missing feedback", cvText: "CV", response: `{"score": 80}`, wantErr: ErrGeneration},
		{name: "not JSON", cvText: "CV", response: "I cannot help with that", wantErr: ErrGeneration},
		{name: "upstream failure", cvText: "CV", upstream: errors.New("quota exceeded"), wantErr: ErrGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gemini := &fakeGemini{response: tt.response, err: tt.upstream}
			resp, err := NewSuggestionService(gemini).ScoreATSCompatibility(ctx, ATSRequest{CVText: tt.cvText})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if resp.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", resp.Score, tt.wantScore)
			}
		})
	}
}

func TestScoreATSCompatibility_GenerationErrorKeepsCause(t *testing.T) {
	cause := errors.New("quota exceeded")
	_, err := NewSuggestionService(&fakeGemini{err: cause}).ScoreATSCompatibility(context.Background(), ATSRequest{CVText: "CV"})

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error = %v, want *GenerationError", err)
	}
	if genErr.Flow != "atsCompatibilityScore" || !errors.Is(err, cause) {
		t.Errorf("GenerationError = %+v", genErr)
	}
}

func TestGenerateCoverLetter(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CoverLetterRequest
		wantErr error
	}{
		{
			name:    "missing company",
			req:     CoverLetterRequest{JobTitle: "Engineer", UserProfile: CoverLetterProfile{FullName: "Ana"}},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "missing job title",
			req:     CoverLetterRequest{CompanyName: "Sonangol", UserProfile: CoverLetterProfile{FullName: "Ana"}},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "complete request",
			req: CoverLetterRequest{
				JobTitle:      "Engineer",
				CompanyName:   "Sonangol",
				RecipientName: "Sr. Domingos",
				UserProfile:   CoverLetterProfile{FullName: "Ana Paula"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gemini := &fakeGemini{response: `{"coverLetterContent": "Dear Sr. Domingos"}`}
			resp, err := NewSuggestionService(gemini).GenerateCoverLetter(ctx, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(gemini.prompts) != 0 {
					t.Error("model was called for an invalid request")
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if resp.CoverLetterContent != "Dear Sr. Domingos" {
				t.Errorf("CoverLetterContent = %q", resp.CoverLetterContent)
			}
			prompt := gemini.prompts[0]
			if !strings.Contains(prompt, "Hiring Manager: Sr. Domingos") || !strings.Contains(prompt, "Professional Summary: N/A") {
				t.Errorf("prompt = %q", prompt)
			}
		})
	}
}
