package llm

import (
	"context"
	"fmt"
)

// MockClient is a stand-in for local runs and tests. It returns a canned
// well-formed feedback block without calling any external service.
type MockClient struct {
	// Err, when set, is returned instead of feedback.
	Err error
}

func (m MockClient) AnalyzeFrame(_ context.Context, req Request) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return fmt.Sprintf(`スコア: 75

良い点:
- リズムが合ってる

改善点:
- 腕をもっと高く

具体的なアドバイス:
- %0.0f秒の振りを復習
`, req.VideoTimestamp), nil
}
