// Package main provides localization for the maskpaint CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Paint inpainting masks and run generative inpainting.": "インペイント用のマスクを描き、生成インペイントを実行します。",

		// Serve command
		"Run the payment, inference and upload proxy": "決済・推論・アップロードのプロキシを起動",
		"Listen address (overrides server.port)":      "待ち受けアドレス（server.port を上書き）",
		"Disable the Redis prediction cache":          "Redis の予測キャッシュを無効化",

		// Mask command
		"Paint a mask from a stroke script":                            "ストロークスクリプトからマスクを描画",
		"Stroke script (YAML)":                                         "ストロークスクリプト（YAML）",
		"Output mask PNG path":                                         "出力マスクPNGのパス",
		"Also write the image with the mask overlaid to this PNG path": "マスクを重ねた画像もこのPNGパスに出力",

		// Inpaint command
		"Paint a mask and run inpainting on it":                                       "マスクを描画してインペイントを実行",
		"Prompt (default: the prompt in the stroke script)":                           "プロンプト（デフォルト: ストロークスクリプトのプロンプト）",
		"Also save the submitted mask PNG to this path":                               "送信したマスクPNGをこのパスにも保存",
		"Write a Markdown run summary to this path":                                   "実行サマリーをMarkdownでこのパスに出力",
		"Skip the payment step (overrides editor.payment_required)":                   "支払いを省略（editor.payment_required を上書き）",
		"Base URL of a maskpaint proxy. When empty the services are called directly.": "maskpaint プロキシのベースURL。空の場合は各サービスを直接呼び出します。",

		// Version command
		"Show version information":                   "バージョン情報を表示",
		"maskpaint version %s (built %s, commit %s)": "maskpaint バージョン %s (ビルド %s, コミット %s)",

		// Shared flags
		"Config file (default: ./maskpaint.yaml when present)": "設定ファイル（デフォルト: ./maskpaint.yaml があれば使用）",
		"Log level (debug, info, warn, error)":                 "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                              "すべてのログ出力を抑制",
		"Enable debug output":                                  "デバッグ出力を有効化",
		"Directory for debug output":                           "デバッグ出力先ディレクトリ",

		// Errors
		"no stroke was committed, the mask is empty": "ストロークが確定されなかったため、マスクが空です",
	})
}
