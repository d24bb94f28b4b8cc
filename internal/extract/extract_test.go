package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegistry_FindAdapter(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		path        string
		contentType string
		want        string
	}{
		{"report.html", "", "html"},
		{"report.htm", "", "html"},
		{"", "text/html; charset=utf-8", "html"},
		{"self-study.md", "", "markdown"},
		{"", "text/markdown", "markdown"},
		{"notes.txt", "", "plain"},
		{"", "text/plain", "plain"},
		{"mystery.bin", "application/octet-stream", "plain"},
		{"", "", "plain"},
	}

	for _, tt := range tests {
		got := registry.FindAdapter(tt.path, tt.contentType).Name()
		if got != tt.want {
			t.Errorf("FindAdapter(%q, %q) = %s, want %s", tt.path, tt.contentType, got, tt.want)
		}
	}
}

func TestHTMLAdapter_SkipsNonContent(t *testing.T) {
	htmlDoc := `
	<html>
	<head><title>Self Study</title><style>body { color: red; }</style></head>
	<body>
		<script>var tracking = "assessment";</script>
		<noscript>enable javascript</noscript>
		<p>The governing board reviews the mission annually.</p>
		<iframe src="http://ads.example.com">sponsored assessment</iframe>
		<p>Outcomes data are published.</p>
	</body>
	</html>
	`

	text, err := FromHTML(htmlDoc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(text, "governing board reviews the mission") {
		t.Errorf("Expected visible text extracted, got %q", text)
	}
	if !strings.Contains(text, "Outcomes data are published.") {
		t.Errorf("Expected second paragraph, got %q", text)
	}
	if strings.Contains(text, "tracking") || strings.Contains(text, "color: red") {
		t.Errorf("Expected script/style content skipped, got %q", text)
	}
	if strings.Contains(text, "enable javascript") || strings.Contains(text, "sponsored") {
		t.Errorf("Expected noscript/iframe content skipped, got %q", text)
	}
}

func TestMarkdownAdapter_StripsSyntax(t *testing.T) {
	md := "# Governance Review\n" +
		"\n" +
		"The **governing board** meets quarterly; see [assessment results](https://example.edu/hidden-outcomes).\n" +
		"\n" +
		"- mission review\n" +
		"2. policy `update`\n" +
		"> quoted finding\n" +
		"\n" +
		"```\ncode block content kept\n```\n"

	text, err := NewMarkdownAdapter().Extract([]byte(md))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(text, "#") || strings.Contains(text, "**") || strings.Contains(text, "`") {
		t.Errorf("Expected markers stripped, got %q", text)
	}
	if strings.Contains(text, "https://example.edu") {
		t.Errorf("Expected link target dropped, got %q", text)
	}
	if !strings.Contains(text, "assessment results") {
		t.Errorf("Expected link text kept, got %q", text)
	}
	if !strings.Contains(text, "Governance Review") || !strings.Contains(text, "mission review") {
		t.Errorf("Expected heading and bullet text kept, got %q", text)
	}
	if !strings.Contains(text, "quoted finding") {
		t.Errorf("Expected blockquote text kept, got %q", text)
	}
	if !strings.Contains(text, "code block content kept") {
		t.Errorf("Expected fenced content kept, got %q", text)
	}
}

func TestPlainAdapter_NormalizesLineEndings(t *testing.T) {
	text, err := NewPlainAdapter().Extract([]byte("line one\r\nline two\r\n"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.Contains(text, "\r") {
		t.Errorf("Expected CRLF normalized, got %q", text)
	}
	if text != "line one\nline two" {
		t.Errorf("Expected trimmed text, got %q", text)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	htmlPath := filepath.Join(dir, "evidence.html")
	if err := os.WriteFile(htmlPath, []byte("<html><body><p>board minutes</p><script>x</script></body></html>"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	text, err := FromFile(htmlPath)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "board minutes" {
		t.Errorf("Expected extracted text, got %q", text)
	}

	if _, err := FromFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}
