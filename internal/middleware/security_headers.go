package middleware

import "net/http"

// NewSecurityHeadersMiddleware は全APIレスポンスにセキュリティ関連ヘッダーを付与するミドルウェアを返す。
// このサービスはJSONのみを返すため、フレーム埋め込みとMIMEスニッフィングを全面的に拒否する。
func NewSecurityHeadersMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			next.ServeHTTP(w, r)
		})
	}
}
