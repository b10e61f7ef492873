package routegraph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
)

// signatureSeparator joins the per-layer expert nodes of a route.
const signatureSeparator = "→"

// NodeName renders the canonical name of an expert node, e.g. "L3E17".
func NodeName(layer, expert int) string {
	return fmt.Sprintf("L%dE%d", layer, expert)
}

// Signature renders the highway signature of a route through the window,
// e.g. "L0E5→L1E12→L2E5". Records must already be sorted by layer.
func Signature(records []RoutingRecord) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = NodeName(r.Layer, r.Top1ID)
	}
	return strings.Join(parts, signatureSeparator)
}

// ParseNodeName splits a node name back into layer and expert.
func ParseNodeName(name string) (layer, expert int, err error) {
	rest, ok := strings.CutPrefix(name, "L")
	if !ok {
		return 0, 0, errors.WrapInvalid(errors.ErrInvalidData, "routegraph", "ParseNodeName", "parse "+name)
	}
	layerStr, expertStr, ok := strings.Cut(rest, "E")
	if !ok {
		return 0, 0, errors.WrapInvalid(errors.ErrInvalidData, "routegraph", "ParseNodeName", "parse "+name)
	}

	layer, err = strconv.Atoi(layerStr)
	if err != nil {
		return 0, 0, errors.WrapInvalid(errors.ErrInvalidData, "routegraph", "ParseNodeName", "parse layer in "+name)
	}
	expert, err = strconv.Atoi(expertStr)
	if err != nil {
		return 0, 0, errors.WrapInvalid(errors.ErrInvalidData, "routegraph", "ParseNodeName", "parse expert in "+name)
	}
	return layer, expert, nil
}

// SplitSignature returns the node names making up a route signature.
func SplitSignature(signature string) []string {
	if signature == "" {
		return nil
	}
	return strings.Split(signature, signatureSeparator)
}

// LinkSignature renders the signature of a single transition between two
// node names.
func LinkSignature(source, target string) string {
	return source + signatureSeparator + target
}
