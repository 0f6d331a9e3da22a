package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParsePatch decodes and structurally validates a raw patch payload.
//
// Validation fails closed: any element failing its per-kind contract
// invalidates the whole batch, and the returned problem strings are meant to
// be fed back to the author verbatim so the retry is self-correcting. The
// returned patch is only meaningful when problems is empty.
func ParsePatch(raw []byte) (Patch, []string) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Patch{}, []string{fmt.Sprintf("payload is not a JSON object: %v", err)}
	}

	v := &payloadValidator{}
	patch := Patch{
		SuggestedCurrentNodeID: v.optionalString(doc, "suggestedCurrentMapNodeId"),
	}
	for i, elem := range v.array(doc, "nodesToAdd") {
		patch.NodesToAdd = append(patch.NodesToAdd, v.nodeAdd(i, elem))
	}
	for i, elem := range v.array(doc, "nodesToUpdate") {
		patch.NodesToUpdate = append(patch.NodesToUpdate, v.nodeUpdate(i, elem))
	}
	for i, elem := range v.array(doc, "nodesToRemove") {
		patch.NodesToRemove = append(patch.NodesToRemove, v.nodeRemove(i, elem))
	}
	for i, elem := range v.array(doc, "edgesToAdd") {
		patch.EdgesToAdd = append(patch.EdgesToAdd, v.edgeAdd(i, elem))
	}
	for i, elem := range v.array(doc, "edgesToUpdate") {
		patch.EdgesToUpdate = append(patch.EdgesToUpdate, v.edgeUpdate(i, elem))
	}
	for i, elem := range v.array(doc, "edgesToRemove") {
		patch.EdgesToRemove = append(patch.EdgesToRemove, v.edgeRemove(i, elem))
	}
	if len(v.problems) > 0 {
		return Patch{}, v.problems
	}
	return patch, nil
}

// payloadValidator accumulates contract violations while walking the loosely
// typed payload. It is a pure structural check; value-level enum validation
// belongs to synonym normalization.
type payloadValidator struct {
	problems []string
}

func (v *payloadValidator) problemf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *payloadValidator) array(doc map[string]any, key string) []map[string]any {
	value, ok := doc[key]
	if !ok || value == nil {
		return nil
	}
	list, ok := value.([]any)
	if !ok {
		v.problemf("%s: expected an array, got %T", key, value)
		return nil
	}
	elems := make([]map[string]any, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			v.problemf("%s[%d]: expected an object, got %T", key, i, item)
			continue
		}
		elems = append(elems, obj)
	}
	return elems
}

func (v *payloadValidator) optionalString(doc map[string]any, key string) string {
	value, ok := doc[key]
	if !ok || value == nil {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		v.problemf("%s: expected a string, got %T", key, value)
		return ""
	}
	return strings.TrimSpace(s)
}

func (v *payloadValidator) requiredString(obj map[string]any, where, key string) string {
	value, ok := obj[key]
	if !ok || value == nil {
		v.problemf("%s: %s is required", where, key)
		return ""
	}
	s, ok := value.(string)
	if !ok {
		v.problemf("%s: %s must be a string, got %T", where, key, value)
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		v.problemf("%s: %s must not be empty", where, key)
	}
	return s
}

func (v *payloadValidator) stringField(obj map[string]any, where, key string) string {
	value, ok := obj[key]
	if !ok || value == nil {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		v.problemf("%s: %s must be a string, got %T", where, key, value)
		return ""
	}
	return strings.TrimSpace(s)
}

func (v *payloadValidator) aliasList(obj map[string]any, where string, required bool) ([]string, bool) {
	value, ok := obj["aliases"]
	if !ok || value == nil {
		if required {
			v.problemf("%s: aliases array is required (may be empty)", where)
		}
		return nil, false
	}
	list, ok := value.([]any)
	if !ok {
		v.problemf("%s: aliases must be an array of strings, got %T", where, value)
		return nil, false
	}
	aliases := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			v.problemf("%s: aliases[%d] must be a string, got %T", where, i, item)
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			aliases = append(aliases, s)
		}
	}
	return aliases, true
}

func (v *payloadValidator) object(obj map[string]any, where, key string, required bool) map[string]any {
	value, ok := obj[key]
	if !ok || value == nil {
		if required {
			v.problemf("%s: %s object is required", where, key)
		}
		return nil
	}
	nested, ok := value.(map[string]any)
	if !ok {
		v.problemf("%s: %s must be an object, got %T", where, key, value)
		return nil
	}
	return nested
}

func (v *payloadValidator) nodeAdd(i int, obj map[string]any) NodeAdd {
	where := fmt.Sprintf("nodesToAdd[%d]", i)
	op := NodeAdd{PlaceName: v.requiredString(obj, where, "placeName")}
	data := v.object(obj, where, "data", true)
	if data == nil {
		return op
	}
	op.Description = v.requiredString(data, where+".data", "description")
	op.Status = v.requiredString(data, where+".data", "status")
	op.NodeType = v.requiredString(data, where+".data", "nodeType")
	op.ParentRef = v.stringField(data, where+".data", "parentNodeId")
	op.Aliases, _ = v.aliasList(data, where+".data", true)
	return op
}

func (v *payloadValidator) nodeUpdate(i int, obj map[string]any) NodeUpdate {
	where := fmt.Sprintf("nodesToUpdate[%d]", i)
	op := NodeUpdate{PlaceName: v.requiredString(obj, where, "placeName")}
	data := v.object(obj, where, "newData", true)
	if data == nil {
		return op
	}
	op.NewName = v.stringField(data, where+".newData", "placeName")
	op.Description = v.stringField(data, where+".newData", "description")
	op.Status = v.stringField(data, where+".newData", "status")
	op.NodeType = v.stringField(data, where+".newData", "nodeType")
	op.ParentRef = v.stringField(data, where+".newData", "parentNodeId")
	op.Aliases, op.AliasesSet = v.aliasList(data, where+".newData", false)
	return op
}

func (v *payloadValidator) nodeRemove(i int, obj map[string]any) NodeRemove {
	where := fmt.Sprintf("nodesToRemove[%d]", i)
	return NodeRemove{PlaceName: v.requiredString(obj, where, "placeName")}
}

func (v *payloadValidator) edgeAdd(i int, obj map[string]any) EdgeAdd {
	where := fmt.Sprintf("edgesToAdd[%d]", i)
	op := EdgeAdd{
		Source: v.requiredString(obj, where, "sourcePlaceName"),
		Target: v.requiredString(obj, where, "targetPlaceName"),
	}
	data := v.object(obj, where, "data", true)
	if data == nil {
		return op
	}
	op.Type = v.requiredString(data, where+".data", "type")
	op.Status = v.requiredString(data, where+".data", "status")
	op.Description = v.stringField(data, where+".data", "description")
	op.TravelTime = v.stringField(data, where+".data", "travelTime")
	return op
}

func (v *payloadValidator) edgeUpdate(i int, obj map[string]any) EdgeUpdate {
	where := fmt.Sprintf("edgesToUpdate[%d]", i)
	op := EdgeUpdate{
		Source: v.requiredString(obj, where, "sourcePlaceName"),
		Target: v.requiredString(obj, where, "targetPlaceName"),
	}
	data := v.object(obj, where, "newData", true)
	if data == nil {
		return op
	}
	op.Type = v.stringField(data, where+".newData", "type")
	op.Status = v.stringField(data, where+".newData", "status")
	op.Description = v.stringField(data, where+".newData", "description")
	op.TravelTime = v.stringField(data, where+".newData", "travelTime")
	return op
}

func (v *payloadValidator) edgeRemove(i int, obj map[string]any) EdgeRemove {
	where := fmt.Sprintf("edgesToRemove[%d]", i)
	return EdgeRemove{
		Source: v.requiredString(obj, where, "sourcePlaceName"),
		Target: v.requiredString(obj, where, "targetPlaceName"),
		Type:   v.stringField(obj, where, "type"),
	}
}
