package security

import "testing"

func TestTextSanitizer_PlainTextPassesThrough(t *testing.T) {
	s := NewTextSanitizer()

	got := s.Sanitize("Buy milk")
	if got != "Buy milk" {
		t.Errorf("Sanitize = %q, want %q", got, "Buy milk")
	}
}

func TestTextSanitizer_StripsMarkup(t *testing.T) {
	s := NewTextSanitizer()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"script tag", `<script>alert(1)</script>Buy milk`, "Buy milk"},
		{"inline tag", `Buy <strong>milk</strong>`, "Buy milk"},
		{"img onerror", `<img src=x onerror=alert(1)>walk the dog`, "walk the dog"},
		{"anchor", `<a href="https://evil.example">click</a>`, "click"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Sanitize(tc.in)
			if got != tc.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTextSanitizer_TrimsWhitespace(t *testing.T) {
	s := NewTextSanitizer()

	got := s.Sanitize("  Buy milk \n")
	if got != "Buy milk" {
		t.Errorf("Sanitize = %q, want %q", got, "Buy milk")
	}
}

// タグのみの入力は空文字列になる。空判定のバリデーションは呼び出し側で行う。
func TestTextSanitizer_MarkupOnlyBecomesEmpty(t *testing.T) {
	s := NewTextSanitizer()

	got := s.Sanitize("<p></p>")
	if got != "" {
		t.Errorf("Sanitize = %q, want empty string", got)
	}
}

// 同一入力に対して常に同一出力を返すこと（冪等）
func TestTextSanitizer_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	in := `<em>Buy</em> milk`
	first := s.Sanitize(in)
	second := s.Sanitize(first)
	if first != second {
		t.Errorf("Sanitize is not idempotent: %q -> %q", first, second)
	}
}
