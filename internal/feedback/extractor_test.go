package feedback

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_WellFormedText(t *testing.T) {
	raw := strings.Join([]string{
		"スコア: 85",
		"",
		"良い点:",
		"- リズム感が良い",
		"改善点:",
		"- 腕の動きが小さい",
		"具体的なアドバイス:",
		"- 肘を肩の高さまで上げる",
	}, "\n")

	rec := NewExtractor().Extract(raw)

	assert.Equal(t, 85.0, rec.Score)
	assert.Equal(t, []string{"リズム感が良い"}, rec.GoodPoints)
	assert.Equal(t, []string{"腕の動きが小さい"}, rec.ImprovementAreas)
	assert.Equal(t, []string{"肘を肩の高さまで上げる"}, rec.SpecificAdvice)
	assert.Equal(t, raw, rec.RawText)
}

func TestExtract_Score(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected float64
	}{
		{name: "plain number", raw: "スコア: 72", expected: 72.0},
		{name: "unit suffix", raw: "スコア: 72点", expected: 72.0},
		{name: "surrounding text", raw: "あなたのスコア: およそ64点です", expected: 64.0},
		{name: "no marker keeps default", raw: "良い動きでした", expected: 70.0},
		{name: "marker without digits keeps default", raw: "スコア: 不明", expected: 70.0},
		{name: "out of range clamped high", raw: "スコア: 950", expected: 100.0},
		{name: "zero", raw: "スコア: 0", expected: 0.0},
	}

	ex := NewExtractor()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ex.Extract(tc.raw).Score)
		})
	}
}

func TestExtract_BulletVariants(t *testing.T) {
	raw := strings.Join([]string{
		"良い点:",
		"- ダッシュ形式",
		"・中黒形式",
		"* 認識されない形式",
		"ただのコメント行",
	}, "\n")

	rec := NewExtractor().Extract(raw)

	assert.Equal(t, []string{"ダッシュ形式", "中黒形式"}, rec.GoodPoints)
}

func TestExtract_TruncationLimits(t *testing.T) {
	long := strings.Repeat("あ", 30)
	raw := strings.Join([]string{
		"良い点:",
		"- " + long,
		"改善点:",
		"- " + long,
		"アドバイス:",
		"- " + long,
	}, "\n")

	rec := NewExtractor().Extract(raw)

	assert.Len(t, []rune(rec.GoodPoints[0]), 15)
	assert.Len(t, []rune(rec.ImprovementAreas[0]), 15)
	assert.Len(t, []rune(rec.SpecificAdvice[0]), 20)
}

func TestExtract_PointCapPerSection(t *testing.T) {
	var b strings.Builder
	b.WriteString("良い点:\n")
	for i := 0; i < 25; i++ {
		b.WriteString("- ポイント\n")
	}

	rec := NewExtractor().Extract(b.String())

	assert.Len(t, rec.GoodPoints, maxPointsPerSection)
}

func TestExtract_EmptyAndNoiseInput(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		rec := NewExtractor().Extract("")
		assert.Equal(t, 70.0, rec.Score)
		assert.NotNil(t, rec.GoodPoints)
		assert.Empty(t, rec.GoodPoints)
		assert.Empty(t, rec.ImprovementAreas)
		assert.Empty(t, rec.SpecificAdvice)
	})

	t.Run("bullets before any section are dropped", func(t *testing.T) {
		rec := NewExtractor().Extract("- 所属セクションなし\n良い点:\n- 本体")
		assert.Equal(t, []string{"本体"}, rec.GoodPoints)
	})
}

func TestExtract_RoundTrip(t *testing.T) {
	good := []string{"姿勢が良い", "笑顔が良い"}
	improve := []string{"足元が不安定"}
	advice := []string{"膝を柔らかく使う"}

	var b strings.Builder
	b.WriteString("スコア: 88\n良い点:\n")
	for _, p := range good {
		b.WriteString("- " + p + "\n")
	}
	b.WriteString("改善点:\n")
	for _, p := range improve {
		b.WriteString("- " + p + "\n")
	}
	b.WriteString("具体的なアドバイス:\n")
	for _, p := range advice {
		b.WriteString("- " + p + "\n")
	}

	rec := NewExtractor().Extract(b.String())

	assert.Equal(t, 88.0, rec.Score)
	assert.Equal(t, good, rec.GoodPoints)
	assert.Equal(t, improve, rec.ImprovementAreas)
	assert.Equal(t, advice, rec.SpecificAdvice)
}

func TestExtract_CustomMarkers(t *testing.T) {
	m := Markers{
		Score:   []string{"Score:"},
		Good:    []string{"Strengths:"},
		Improve: []string{"Weaknesses:"},
		Advice:  []string{"Advice:"},
		Bullets: []string{"* "},
	}
	ex := NewExtractor(WithMarkers(m))

	rec := ex.Extract("Score: 91\nStrengths:\n* good timing\nAdvice:\n* bend your knees")

	assert.Equal(t, 91.0, rec.Score)
	assert.Equal(t, []string{"good timing"}, rec.GoodPoints)
	assert.Equal(t, []string{"bend your knees"}, rec.SpecificAdvice)
}

func TestFallback(t *testing.T) {
	rec := Fallback(errors.New("model unreachable"))

	assert.Equal(t, 50.0, rec.Score)
	assert.Equal(t, []string{"動いてる！"}, rec.GoodPoints)
	assert.Equal(t, []string{"もっと大きく"}, rec.ImprovementAreas)
	assert.Equal(t, []string{"リズムを意識"}, rec.SpecificAdvice)
	assert.Contains(t, rec.RawText, "model unreachable")
}
