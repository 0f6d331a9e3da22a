package domain

import (
	"regexp"
	"strings"
)

// Synonym tables map free-form author vocabulary onto canonical enum values.
// Lookups are case-folded; values already canonical pass through untouched.

var nodeStatusSynonyms = map[string]NodeStatus{
	"unknown":      NodeStatusUndiscovered,
	"unexplored":   NodeStatusUndiscovered,
	"unvisited":    NodeStatusUndiscovered,
	"hidden":       NodeStatusUndiscovered,
	"explored":     NodeStatusDiscovered,
	"visited":      NodeStatusDiscovered,
	"known":        NodeStatusDiscovered,
	"mapped":       NodeStatusDiscovered,
	"found":        NodeStatusDiscovered,
	"heard of":     NodeStatusRumored,
	"legendary":    NodeStatusRumored,
	"mythical":     NodeStatusRumored,
	"whispered":    NodeStatusRumored,
	"objective":    NodeStatusQuestTarget,
	"quest":        NodeStatusQuestTarget,
	"quest goal":   NodeStatusQuestTarget,
	"destination":  NodeStatusQuestTarget,
	"target":       NodeStatusQuestTarget,
	"quest_target": NodeStatusQuestTarget,
}

var nodeTypeSynonyms = map[string]NodeType{
	"area":              NodeTypeRegion,
	"zone":              NodeTypeRegion,
	"province":          NodeTypeRegion,
	"wilds":             NodeTypeRegion,
	"town":              NodeTypeSettlement,
	"city":              NodeTypeSettlement,
	"village":           NodeTypeSettlement,
	"hamlet":            NodeTypeSettlement,
	"outpost":           NodeTypeSettlement,
	"building":          NodeTypeExterior,
	"structure":         NodeTypeExterior,
	"grounds":           NodeTypeExterior,
	"courtyard":         NodeTypeExterior,
	"inside":            NodeTypeInterior,
	"hall":              NodeTypeInterior,
	"floor":             NodeTypeInterior,
	"chamber":           NodeTypeRoom,
	"cell":              NodeTypeRoom,
	"alcove":            NodeTypeRoom,
	"landmark":          NodeTypeFeature,
	"spot":              NodeTypeFeature,
	"detail":            NodeTypeFeature,
	"point":             NodeTypeFeature,
	"object":            NodeTypeFeature,
	"poi":               NodeTypeFeature,
	"point of interest": NodeTypeFeature,
}

var edgeTypeSynonyms = map[string]EdgeType{
	"trail":       EdgeTypePath,
	"track":       EdgeTypePath,
	"walkway":     EdgeTypePath,
	"footpath":    EdgeTypePath,
	"street":      EdgeTypeRoad,
	"highway":     EdgeTypeRoad,
	"avenue":      EdgeTypeRoad,
	"doorway":     EdgeTypeDoor,
	"gate":        EdgeTypeDoor,
	"entrance":    EdgeTypeDoor,
	"archway":     EdgeTypeDoor,
	"staircase":   EdgeTypeStairs,
	"stairway":    EdgeTypeStairs,
	"steps":       EdgeTypeStairs,
	"ladder":      EdgeTypeStairs,
	"passage":     EdgeTypeTunnel,
	"passageway":  EdgeTypeTunnel,
	"underpass":   EdgeTypeTunnel,
	"crossing":    EdgeTypeBridge,
	"ford":        EdgeTypeBridge,
	"overpass":    EdgeTypeBridge,
	"secret path": EdgeTypeShortcut,
	"portal":      EdgeTypeShortcut,
	"teleporter":  EdgeTypeShortcut,
}

var edgeStatusSynonyms = map[string]EdgeStatus{
	"accessible":   EdgeStatusOpen,
	"passable":     EdgeStatusOpen,
	"clear":        EdgeStatusOpen,
	"usable":       EdgeStatusOpen,
	"shut":         EdgeStatusClosed,
	"sealed":       EdgeStatusClosed,
	"barred":       EdgeStatusLocked,
	"obstructed":   EdgeStatusBlocked,
	"impassable":   EdgeStatusBlocked,
	"caved in":     EdgeStatusBlocked,
	"collapsed":    EdgeStatusBlocked,
	"concealed":    EdgeStatusHidden,
	"secret":       EdgeStatusHidden,
	"undiscovered": EdgeStatusHidden,
	"suspected":    EdgeStatusRumored,
	"heard of":     EdgeStatusRumored,
}

// Heuristics applied after table lookup misses. British spellings and
// compound phrasings show up often enough in model output to warrant them.
var (
	rumorPattern   = regexp.MustCompile(`rumou?r`)
	questPattern   = regexp.MustCompile(`quest|objective`)
	lockedPattern  = regexp.MustCompile(`lock|barr?ed`)
	blockedPattern = regexp.MustCompile(`block|collaps|cave`)
	removalPattern = regexp.MustCompile(`^(destroyed|removed|gone|deleted|demolished|razed|obliterated|erased)$`)
)

func foldValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeNodeStatus maps a free-form status onto a canonical NodeStatus.
func NormalizeNodeStatus(raw string) (NodeStatus, bool) {
	value := foldValue(raw)
	if canonical := NodeStatus(value); canonical.IsValid() {
		return canonical, true
	}
	if canonical, ok := nodeStatusSynonyms[value]; ok {
		return canonical, true
	}
	if rumorPattern.MatchString(value) {
		return NodeStatusRumored, true
	}
	if questPattern.MatchString(value) {
		return NodeStatusQuestTarget, true
	}
	return "", false
}

// NormalizeNodeType maps a free-form hierarchy level onto a canonical NodeType.
func NormalizeNodeType(raw string) (NodeType, bool) {
	value := foldValue(raw)
	if canonical := NodeType(value); canonical.IsValid() {
		return canonical, true
	}
	if canonical, ok := nodeTypeSynonyms[value]; ok {
		return canonical, true
	}
	return "", false
}

// NormalizeEdgeType maps a free-form connection kind onto a canonical EdgeType.
func NormalizeEdgeType(raw string) (EdgeType, bool) {
	value := foldValue(raw)
	if canonical := EdgeType(value); canonical.IsValid() {
		return canonical, true
	}
	if canonical, ok := edgeTypeSynonyms[value]; ok {
		return canonical, true
	}
	return "", false
}

// NormalizeEdgeStatus maps a free-form traversal state onto a canonical
// EdgeStatus.
func NormalizeEdgeStatus(raw string) (EdgeStatus, bool) {
	value := foldValue(raw)
	if canonical := EdgeStatus(value); canonical.IsValid() {
		return canonical, true
	}
	if canonical, ok := edgeStatusSynonyms[value]; ok {
		return canonical, true
	}
	if rumorPattern.MatchString(value) {
		return EdgeStatusRumored, true
	}
	if lockedPattern.MatchString(value) {
		return EdgeStatusLocked, true
	}
	if blockedPattern.MatchString(value) {
		return EdgeStatusBlocked, true
	}
	return "", false
}

// IsRemovalStatus reports whether a status update is removal-flavored. Such
// updates are migrated into proper remove operations during normalization.
func IsRemovalStatus(raw string) bool {
	return removalPattern.MatchString(foldValue(raw))
}
