package exa

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// parsePublishedDate はExaのpublishedDate文字列を*time.Timeに変換する。
// RFC3339と日付のみの形式を受け付け、パースできない場合はnilを返す。
func parsePublishedDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// domainFromURL はURLからwwwプレフィックスを除いたホスト名を返す。
// パースできない場合は空文字列を返す。
func domainFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// companyFromDomain はドメイン名から企業名らしき文字列を推定する。
// 最初のラベルを大文字始まりにして返す（"acme.com" → "Acme"）。
func companyFromDomain(domain string) string {
	if domain == "" {
		return ""
	}
	label := domain
	if i := strings.Index(domain, "."); i > 0 {
		label = domain[:i]
	}
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// companyFromTitle はタイトルの " at " または " @ " 以降を企業名として抽出する。
// 見つからない場合は空文字列を返す。
func companyFromTitle(title string) string {
	for _, sep := range []string{" at ", " @ "} {
		if i := strings.Index(title, sep); i >= 0 {
			company := strings.TrimSpace(title[i+len(sep):])
			// 企業名の後ろに付く区切り以降は落とす
			for _, cut := range []string{" | ", " - ", " – "} {
				if j := strings.Index(company, cut); j >= 0 {
					company = strings.TrimSpace(company[:j])
				}
			}
			if company != "" {
				return company
			}
		}
	}
	return ""
}

// titleBeforeSeparator はタイトルの先頭部分を区切り文字の手前まで返す。
func titleBeforeSeparator(title string) string {
	result := title
	for _, sep := range []string{" at ", " @ ", " | ", " - ", " – ", ":"} {
		if i := strings.Index(result, sep); i >= 0 {
			result = result[:i]
		}
	}
	return strings.TrimSpace(result)
}

// descriptionFromHighlights は上位最大5件のハイライトを結合して説明文を作る。
// ハイライトがない場合は本文の先頭を切り出して返す。
func descriptionFromHighlights(result SearchResult) string {
	if len(result.Highlights) > 0 {
		highlights := result.Highlights
		if len(highlights) > 5 {
			highlights = highlights[:5]
		}
		return strings.Join(highlights, " ")
	}
	text := strings.TrimSpace(result.Text)
	if len(text) > 1000 {
		// マルチバイト文字の途中で切らないようルーン境界まで戻す
		cut := 1000
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
