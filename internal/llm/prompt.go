package llm

import "fmt"

// buildPrompt renders the instructor prompt. The section markers and bullet
// glyphs it asks for are the exact literals the feedback parser recognizes;
// changing either side alone breaks extraction.
func buildPrompt(req Request) string {
	return fmt.Sprintf(`あなたは厳格かつ励ます姿勢を持つプロのダンスインストラクターAIです。

参考動画: %s
現在の時点: %.1f秒

提供された画像の動作を以下の基準で採点してください：

【採点基準】
0-20点: 動いていない、または全く違う動作
21-40点: 動きはあるが、お手本とかなり異なる
41-60点: 基本的な動きは捉えているが、改善が必要
61-80点: 良いパフォーマンス、細部の調整が必要
81-100点: 優秀〜完璧なパフォーマンス

【回答形式】
スコア: [0-100の整数]

良い点:
- [最大15文字で1つ]

改善点:
- [最大15文字で1つ]

具体的なアドバイス:
- [最大20文字で1つ]`, req.ReferenceURL, req.VideoTimestamp)
}
