package routegraph

import (
	"fmt"
	"math"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
)

// Capture geometry of the probed model.
const (
	// TopK is the number of experts captured per routing decision.
	TopK = 4
	// ExpertCount is the number of experts per MoE layer.
	ExpertCount = 32
	// LayerCount is the number of transformer layers.
	LayerCount = 24
)

// Token positions within a probe.
const (
	PositionContext = 0
	PositionTarget  = 1
)

// RoutingRecord is one captured routing decision: which experts a token
// was dispatched to at one layer, with the top-1 extraction used for
// highway analysis.
type RoutingRecord struct {
	ProbeID  string `json:"probe_id"`
	Layer    int    `json:"layer"`
	Position int    `json:"token_position"`

	TopExpertIDs     [TopK]int     `json:"expert_top4_ids"`
	TopExpertWeights [TopK]float64 `json:"expert_top4_weights"`

	Top1ID     int     `json:"expert_top1_id"`
	Top1Weight float64 `json:"expert_top1_weight"`

	// GateEntropy is the router's uncertainty: -sum(p * ln(p)) over all
	// experts at this layer.
	GateEntropy float64 `json:"gate_entropy"`

	CapturedAt string `json:"captured_at,omitempty"`
}

// Validate checks internal consistency of a routing record: layer and
// expert ranges, and agreement between the top-1 extraction and the top-4
// weights.
func (r *RoutingRecord) Validate() error {
	if r.Layer < 0 || r.Layer >= LayerCount {
		return errors.WrapInvalid(errors.ErrInvalidRecord, "RoutingRecord", "Validate",
			fmt.Sprintf("layer %d out of range [0, %d)", r.Layer, LayerCount))
	}

	maxIdx := 0
	for i, id := range r.TopExpertIDs {
		if id < 0 || id >= ExpertCount {
			return errors.WrapInvalid(errors.ErrInvalidRecord, "RoutingRecord", "Validate",
				fmt.Sprintf("expert id %d out of range [0, %d)", id, ExpertCount))
		}
		if r.TopExpertWeights[i] > r.TopExpertWeights[maxIdx] {
			maxIdx = i
		}
	}

	if r.Top1ID != r.TopExpertIDs[maxIdx] {
		return errors.WrapInvalid(errors.ErrInvalidRecord, "RoutingRecord", "Validate",
			fmt.Sprintf("top-1 expert %d does not match max-weight expert %d", r.Top1ID, r.TopExpertIDs[maxIdx]))
	}
	if math.Abs(r.Top1Weight-r.TopExpertWeights[maxIdx]) > 1e-6 {
		return errors.WrapInvalid(errors.ErrInvalidRecord, "RoutingRecord", "Validate",
			fmt.Sprintf("top-1 weight %g does not match max weight %g", r.Top1Weight, r.TopExpertWeights[maxIdx]))
	}
	return nil
}

// Confidence is 1 minus the gate entropy normalized by the maximum
// possible entropy for the expert count. 1 means the router was certain,
// 0 means it was maximally uncertain.
func (r *RoutingRecord) Confidence() float64 {
	return 1 - r.GateEntropy/math.Log(ExpertCount)
}

// Margin is the weight gap between the top-1 and top-2 experts.
func (r *RoutingRecord) Margin() float64 {
	return r.TopExpertWeights[0] - r.TopExpertWeights[1]
}

// TokenRecord links a probe to its context and target text.
type TokenRecord struct {
	ProbeID string `json:"probe_id"`
	Context string `json:"context_text"`
	Target  string `json:"target_text"`
}

// Manifest carries the capture session's category assignments: for each
// side, word to the list of categories it was tagged with during probe
// construction.
type Manifest struct {
	SessionID          string              `json:"session_id,omitempty"`
	ContextAssignments map[string][]string `json:"context_category_assignments"`
	TargetAssignments  map[string][]string `json:"target_category_assignments"`
}

// TargetCategories returns the categories assigned to a target word.
func (m *Manifest) TargetCategories(word string) []string {
	if m == nil {
		return nil
	}
	return m.TargetAssignments[word]
}

// ContextCategories returns the categories assigned to a context word.
func (m *Manifest) ContextCategories(word string) []string {
	if m == nil {
		return nil
	}
	return m.ContextAssignments[word]
}
