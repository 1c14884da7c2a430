package webhook

import (
	"encoding/json"
	"strings"
)

// Status enumerates provider event statuses.
type Status string

const (
	StatusStarting   Status = "starting"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusCanceled   Status = "canceled"
)

// Event is one provider delivery. Output is kept raw because its shape is
// what discriminates training from generation results.
type Event struct {
	ID      string          `json:"id"`
	Status  Status          `json:"status"`
	Output  json.RawMessage `json:"output,omitempty"`
	Error   string          `json:"error,omitempty"`
	Logs    string          `json:"logs,omitempty"`
	Metrics *Metrics        `json:"metrics,omitempty"`
}

// Metrics carries informational timing data; the reconciler never acts on it.
type Metrics struct {
	PredictTime float64 `json:"predict_time,omitempty"`
}

// Kind tags the decoded shape of an event.
type Kind int

const (
	// KindUnknown is a classification miss: acknowledged, never mutated on.
	KindUnknown Kind = iota
	// KindTrainingComplete is a succeeded event whose output references
	// trained model weights.
	KindTrainingComplete
	// KindGenerationComplete is a succeeded event whose output is an ordered
	// list of image URLs.
	KindGenerationComplete
	// KindFailure marks the referenced job failed.
	KindFailure
	// KindProgress is an intermediate notification; acknowledged, no mutation.
	KindProgress
)

// Classified is the tagged union an Event decodes into at the boundary.
type Classified struct {
	Kind        Kind
	Weights     string
	Version     string
	ImageURLs   []string
	ErrorDetail string
}

type trainingOutput struct {
	Weights string `json:"weights"`
	Version string `json:"version"`
}

// Classify decodes the event payload into its recognized shape. Precedence
// on succeeded events: a weights object is checked before a URL list, so a
// payload that could satisfy both is always treated as training output.
func Classify(ev Event) Classified {
	switch ev.Status {
	case StatusSucceeded:
		if out, ok := decodeTrainingOutput(ev.Output); ok {
			return Classified{Kind: KindTrainingComplete, Weights: out.Weights, Version: out.Version}
		}
		if urls, ok := decodeImageURLs(ev.Output); ok {
			return Classified{Kind: KindGenerationComplete, ImageURLs: urls}
		}
		return Classified{Kind: KindUnknown}
	case StatusFailed:
		return Classified{Kind: KindFailure, ErrorDetail: ev.Error}
	case StatusStarting, StatusProcessing, StatusCanceled:
		return Classified{Kind: KindProgress}
	}
	return Classified{Kind: KindUnknown}
}

func decodeTrainingOutput(raw json.RawMessage) (trainingOutput, bool) {
	if !firstByteIs(raw, '{') {
		return trainingOutput{}, false
	}
	var out trainingOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return trainingOutput{}, false
	}
	if out.Weights == "" {
		return trainingOutput{}, false
	}
	return out, true
}

func decodeImageURLs(raw json.RawMessage) ([]string, bool) {
	if !firstByteIs(raw, '[') {
		return nil, false
	}
	var urls []string
	if err := json.Unmarshal(raw, &urls); err != nil {
		return nil, false
	}
	return urls, true
}

func firstByteIs(raw json.RawMessage, b byte) bool {
	trimmed := strings.TrimSpace(string(raw))
	return len(trimmed) > 0 && trimmed[0] == b
}
