package blocktree

import "github.com/goliatone/go-blockgraph/internal/richtext"

// AnomalyKind classifies a recoverable problem found in the source graph.
type AnomalyKind string

const (
	AnomalyUnresolvedChild   AnomalyKind = "unresolved_child"
	AnomalyUnknownBlockType  AnomalyKind = "unknown_block_type"
	AnomalyUnknownDecorator  AnomalyKind = "unknown_decorator"
	AnomalyUnresolvedMention AnomalyKind = "unresolved_mention"
	AnomalyMalformedTable    AnomalyKind = "malformed_table"
	AnomalyCycleSkipped      AnomalyKind = "cycle_skipped"
	AnomalyDepthTruncated    AnomalyKind = "depth_truncated"
)

// Anomaly records a fragment that was skipped or degraded during a build.
type Anomaly struct {
	Kind   AnomalyKind `json:"kind"`
	NodeID string      `json:"node_id"`
	Detail string      `json:"detail,omitempty"`
}

// CountByKind tallies anomalies per kind.
func CountByKind(anomalies []Anomaly) map[AnomalyKind]int {
	if len(anomalies) == 0 {
		return nil
	}
	out := make(map[AnomalyKind]int)
	for _, a := range anomalies {
		out[a.Kind]++
	}
	return out
}

func anomalyFromIssue(nodeID string, issue richtext.Issue) Anomaly {
	kind := AnomalyUnknownDecorator
	if issue.Kind == richtext.IssueUnresolvedMention {
		kind = AnomalyUnresolvedMention
	}
	return Anomaly{Kind: kind, NodeID: nodeID, Detail: issue.Detail}
}
