package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Command level messages (info)
		"Mask saved to %s":                         "マスクを %s に保存しました",
		"Preview saved to %s":                      "プレビューを %s に保存しました",
		"Summary saved to %s":                      "サマリーを %s に保存しました",
		"Inpainting finished: %s":                  "インペイントが完了しました: %s",
		"Replayed %d events, %d strokes committed": "%d 件のイベントを再生し、%d ストロークを確定しました",
		"Interrupted, shutting down...":            "中断されました。シャットダウン中...",

		// Editor
		"Loaded %s image %dx%d, canvas %dx%d":              "%s 画像 %dx%d を読み込みました (キャンバス %dx%d)",
		"Mask cleared":                                     "マスクをクリアしました",
		"Submitting prompt %q":                             "プロンプト %q を送信中",
		"Awaiting payment for intent %s":                   "支払い %s の完了を待っています",
		"Payment %s confirmed":                             "支払い %s が確認されました",
		"Discarding inference result for a replaced image": "差し替え前の画像に対する推論結果を破棄します",

		// Pointer tracker (debug)
		"Stroke started at %.1f,%.1f":                     "ストローク開始 %.1f,%.1f",
		"Stroke committed (%d bytes)":                     "ストロークを確定しました (%d バイト)",
		"Stroke abandoned on pointer leave":               "ポインタが離れたためストロークを中断しました",
		"Stroke canceled":                                 "ストロークを取り消しました",
		"Ignoring pointer event on zero-sized canvas box": "サイズ0のキャンバスに対するポインタイベントを無視します",

		// Submission
		"Uploaded %s to %s":                "%s を %s にアップロードしました",
		"Payment intent %s created for %d": "支払い %s を作成しました (金額 %d)",
		"Running inference with %d steps":  "%d ステップで推論を実行中",
		"Inference completed: %s":          "推論が完了しました: %s",

		// Collaborators
		"Cloudflare image %s stored":          "Cloudflare に画像 %s を保存しました",
		"Payment intent %s created for %d %s": "支払い %s を作成しました (%d %s)",
		"Payment %s is %s":                    "支払い %s の状態: %s",
		"Replicate responded %d (%d bytes)":   "Replicate の応答 %d (%d バイト)",
		"Prediction cache enabled at %s":      "予測キャッシュを %s で有効にしました",

		// Warnings
		"Rejected image of %d bytes (limit %d)":                  "%d バイトの画像を拒否しました (上限 %d)",
		"Submission rejected: %s":                                "送信を受け付けられません: %s",
		"Redis unavailable at %s, prediction cache disabled: %s": "%s の Redis に接続できないため予測キャッシュを無効にします: %s",

		// Errors
		"Failed to decode image: %s":                        "画像のデコードに失敗しました: %s",
		"Failed to upload %s: %s":                           "%s のアップロードに失敗しました: %s",
		"Failed to create payment intent: %s":               "支払いの作成に失敗しました: %s",
		"Payment %s failed: %s":                             "支払い %s が失敗しました: %s",
		"Inference failed: %s":                              "推論に失敗しました: %s",
		"Unexpected failure in state %s: %s":                "状態 %s で予期しないエラーが発生しました: %s",
		"Cloudflare upload of %s failed with status %d: %s": "Cloudflare への %s のアップロードがステータス %d で失敗しました: %s",
		"Replicate API error %d: %s":                        "Replicate API エラー %d: %s",
		"Stripe rejected payment intent: %s":                "Stripe が支払いを拒否しました: %s",
		"POST %s -> %d":                                     "POST %s -> %d",

		// Console prompts
		"Payment intent %s is waiting (client secret %s).": "支払い %s が待機中です (クライアントシークレット %s)。",
		"Has the payment completed? [y/N]: ":               "支払いは完了しましたか? [y/N]: ",
	})
}
