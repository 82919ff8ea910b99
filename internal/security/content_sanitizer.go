// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService は外部検索APIから取り込んだテキストおよび
// ユーザー入力の自由記述フィールドをサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はテキストコンテンツのサニタイズ機能のインターフェースを定義する。
// 求人・スタートアップの説明文、応募・ディールフローのメモ等の保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグを除去しプレーンテキストを返す。
	// script, iframe, style等のタグとon*イベント属性も内容ごと除去される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはすべてのタグを除去する。検索APIの返すハイライトや
// ユーザーのメモはマークアップを持たない想定のため、テキストのみ残す。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグを除去しプレーンテキストを返す。
// StrictPolicyはタグ除去後にエンティティをエスケープするため、
// プレーンテキストとして保存できるようアンエスケープして返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
