package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup は指定writerへJSON構造化ログを出力するslog.Loggerを生成して返す。
// APIサーバーとワーカーの両モードで共通に使用する。
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// writerがnilの場合はos.Stdoutへ出力する。
// サービス層からのslog.Warn等の呼び出しはこのロガーを経由する。
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w)
	slog.SetDefault(logger)
}
