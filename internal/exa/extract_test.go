package exa

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCompanyFromTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Investment Analyst at Sequoia Capital", "Sequoia Capital"},
		{"Associate @ Index Ventures", "Index Ventures"},
		{"VC Analyst at Accel | London", "Accel"},
		{"Senior Associate at First Round - Remote", "First Round"},
		{"Venture Capital Jobs Board", ""},
	}
	for _, tt := range tests {
		if got := companyFromTitle(tt.title); got != tt.want {
			t.Errorf("companyFromTitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestTitleBeforeSeparator(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Acme raises $10M Series A", "Acme raises $10M Series A"},
		{"Acme: the future of fintech", "Acme"},
		{"Acme - Series B announcement", "Acme"},
		{"Analyst at Acme", "Analyst"},
	}
	for _, tt := range tests {
		if got := titleBeforeSeparator(tt.title); got != tt.want {
			t.Errorf("titleBeforeSeparator(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestDomainFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.acme.com/jobs/1", "acme.com"},
		{"https://jobs.acme.io/listing", "jobs.acme.io"},
		{"not a url", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := domainFromURL(tt.url); got != tt.want {
			t.Errorf("domainFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCompanyFromDomain(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"acme.com", "Acme"},
		{"stripe.io", "Stripe"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := companyFromDomain(tt.domain); got != tt.want {
			t.Errorf("companyFromDomain(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}

func TestParsePublishedDate(t *testing.T) {
	if got := parsePublishedDate("2026-08-01T12:00:00Z"); got == nil {
		t.Error("RFC3339形式をパースできるべき")
	}
	if got := parsePublishedDate("2026-08-01"); got == nil {
		t.Error("日付のみの形式をパースできるべき")
	}
	if got := parsePublishedDate("invalid"); got != nil {
		t.Error("不正な形式にはnilを返すべき")
	}
	if got := parsePublishedDate(""); got != nil {
		t.Error("空文字列にはnilを返すべき")
	}
}

func TestDescriptionFromHighlights_TopFiveOnly(t *testing.T) {
	result := SearchResult{
		Highlights: []string{"h1", "h2", "h3", "h4", "h5", "h6", "h7"},
	}
	got := descriptionFromHighlights(result)
	want := "h1 h2 h3 h4 h5"
	if got != want {
		t.Errorf("descriptionFromHighlights() = %q, want %q", got, want)
	}
}

func TestDescriptionFromHighlights_FallsBackToText(t *testing.T) {
	result := SearchResult{Text: "full body text"}
	if got := descriptionFromHighlights(result); got != "full body text" {
		t.Errorf("descriptionFromHighlights() = %q, want %q", got, "full body text")
	}
}

// 切り詰めがマルチバイト文字の途中で行われないことを検証する
func TestDescriptionFromHighlights_TruncatesAtRuneBoundary(t *testing.T) {
	// 999バイト目以降に3バイト文字が跨るテキスト
	text := strings.Repeat("a", 999) + "面接面接"
	result := SearchResult{Text: text}

	got := descriptionFromHighlights(result)
	if len(got) > 1000 {
		t.Fatalf("len = %d, want <= 1000", len(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("切り詰め結果が不正なUTF-8: %q", got[990:])
	}
	if got != strings.Repeat("a", 999) {
		t.Errorf("末尾 = %q, want %q", got[995:], "aaaa")
	}
}

func TestExtractFundingStage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Acme raises Series A round", "series a"},
		{"Pre-Seed funding announced", "pre-seed"},
		{"closes seed round", "seed"},
		{"no stage mentioned", ""},
	}
	for _, tt := range tests {
		if got := extractFundingStage(tt.text); got != tt.want {
			t.Errorf("extractFundingStage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractFundingAmount(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"raises $5M in funding", "$5M"},
		{"secured $12.5 million", "$12.5 million"},
		{"a $1B valuation", "$1B"},
		{"undisclosed amount", ""},
	}
	for _, tt := range tests {
		if got := extractFundingAmount(tt.text); got != tt.want {
			t.Errorf("extractFundingAmount(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractIndustry(t *testing.T) {
	if got := extractIndustry("A Fintech startup in Berlin"); got != "fintech" {
		t.Errorf("extractIndustry() = %q, want %q", got, "fintech")
	}
	if got := extractIndustry("nothing relevant"); got != "" {
		t.Errorf("extractIndustry() = %q, want empty", got)
	}
}

func TestBuildJobQueries(t *testing.T) {
	queries := BuildJobQueries("vc jobs", []string{"fintech", "ai"})
	if len(queries) != 3 {
		t.Fatalf("クエリ数 = %d, want 3", len(queries))
	}
	if queries[0] != "vc jobs" {
		t.Errorf("queries[0] = %q, want %q", queries[0], "vc jobs")
	}
	if queries[1] != "vc jobs fintech" {
		t.Errorf("queries[1] = %q, want %q", queries[1], "vc jobs fintech")
	}
}

func TestBuildDealQueries(t *testing.T) {
	queries := BuildDealQueries([]string{"biotech"})
	if len(queries) != 1 {
		t.Fatalf("クエリ数 = %d, want 1", len(queries))
	}
	if queries[0] != "biotech startup raises funding round announcement" {
		t.Errorf("queries[0] = %q", queries[0])
	}
}
