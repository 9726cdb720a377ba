package llm

import (
	"context"
	"errors"
	"testing"
)

type fakeClient struct {
	response string
	err      error
	params   GenerationParams
}

func (f *fakeClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	f.params = params
	return f.response, f.err
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced without language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around object", `Here you go: {"a":1}. Enjoy!`, `{"a":1}`},
		{"array", `[1,2,3]`, `[1,2,3]`},
		{"no json", "sorry, I cannot do that", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestGenerateJSON(t *testing.T) {
	t.Run("decodes fenced response", func(t *testing.T) {
		client := &fakeClient{response: "```json\n{\"sentiment\":\"positive\",\"score\":8}\n```"}

		var out struct {
			Sentiment string `json:"sentiment"`
			Score     int    `json:"score"`
		}
		if err := GenerateJSON(context.Background(), client, "prompt", GenerationParams{}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Sentiment != "positive" || out.Score != 8 {
			t.Errorf("unexpected decode: %+v", out)
		}
	})

	t.Run("requests the backend's JSON mode", func(t *testing.T) {
		client := &fakeClient{response: `{"a":1}`}

		var out map[string]any
		if err := GenerateJSON(context.Background(), client, "prompt", GenerationParams{}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !client.params.ForceJSON {
			t.Error("expected ForceJSON to be set on the generation params")
		}
	})

	t.Run("propagates backend error", func(t *testing.T) {
		client := &fakeClient{err: errors.New("backend down")}

		var out map[string]any
		if err := GenerateJSON(context.Background(), client, "prompt", GenerationParams{}, &out); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("errors on non-JSON response", func(t *testing.T) {
		client := &fakeClient{response: "plain prose"}

		var out map[string]any
		if err := GenerateJSON(context.Background(), client, "prompt", GenerationParams{}, &out); err == nil {
			t.Fatal("expected error")
		}
	})
}
