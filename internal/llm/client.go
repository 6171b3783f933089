// Package llm wraps the external generative model that produces coaching
// feedback. The rest of the system only sees raw text; interpreting it is
// the feedback package's job.
package llm

import "context"

// Request carries everything the model needs to judge one webcam frame
// against the reference video.
type Request struct {
	ReferenceURL   string
	VideoTimestamp float64
	// FrameDataURL is the webcam frame as a data URL (base64 image).
	FrameDataURL string
}

// Client abstracts the model call so it can be swapped or mocked.
type Client interface {
	AnalyzeFrame(ctx context.Context, req Request) (string, error)
}

// Settings is the base configuration for concrete implementations.
type Settings struct {
	APIKey  string
	BaseURL string
	Model   string
}
