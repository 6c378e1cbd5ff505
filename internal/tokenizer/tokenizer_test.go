package tokenizer

import "testing"

func TestResolveEncoding(t *testing.T) {
	tok := New()

	tests := []struct {
		model string
		want  string
	}{
		{"gpt-4o", EncodingO200kBase},
		{"gpt-4o-mini", EncodingO200kBase},
		{"gpt-4-turbo", EncodingCL100kBase},
		{"gpt-3.5-turbo", EncodingCL100kBase},
		{"o1-mini", EncodingO200kBase},
		{"o3-mini", EncodingO200kBase},
		{"llama-3.1-8b-instant", EncodingCL100kBase},
		{"mixtral-8x7b-32768", EncodingCL100kBase},
		{"GPT-4o", EncodingO200kBase}, // case-insensitive
		{"", EncodingCL100kBase},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := tok.resolveEncoding(tt.model); got != tt.want {
				t.Errorf("resolveEncoding(%q) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}
