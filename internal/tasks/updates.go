package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	QueueSlips Phase = iota
	RenderSlip
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case QueueSlips:
		return "queue_slips"
	case RenderSlip:
		return "render_slip"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func queueUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   QueueSlips,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Queued slip for %s", name),
	}
}

func slipDoneUpdate(step, total int, res SlipResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RenderSlip,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ %s (%s) → %s", res.Name, res.Number, res.Key),
		Data:    res,
	}
}

func slipFailedUpdate(step, total int, res SlipResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RenderSlip,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✗ %s: %v", res.Name, res.Error),
		Data:    res,
	}
}

func manifestUpdate(key string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote manifest %s", key),
	}
}
