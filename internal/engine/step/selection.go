package step

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Selection is a document-relative cursor or range that travels alongside
// history items the way ProseMirror's does: stored as JSON on the item
// that preceded it, remapped in place as later edits are skipped over, and
// only ever turned back into a live Selection against the document it will
// be applied to.
type Selection interface {
	ToJSON() string
}

// TextSelection is the Selection this module's TextDoc model uses: a plain
// anchor/head pair of rune offsets.
type TextSelection struct {
	Anchor, Head int
}

// ToJSON implements Selection.
func (s TextSelection) ToJSON() string {
	j := `{"type":"text"}`
	j, _ = sjson.Set(j, "anchor", s.Anchor)
	j, _ = sjson.Set(j, "head", s.Head)
	return j
}

// MapSelectionJSON remaps the anchor/head recorded in json through remap,
// without ever constructing a live Selection. This is what Branch.PopEvent
// and Branch.Rebased use to carry a selection item's stored JSON forward
// across the items they skip, mirroring Selection.mapJSON's role of
// staying document-agnostic.
func MapSelectionJSON(json string, remap *Mapping) string {
	anchor := int(gjson.Get(json, "anchor").Int())
	head := int(gjson.Get(json, "head").Int())
	anchor = remap.Map(anchor)
	head = remap.Map(head)
	out, _ := sjson.Set(json, "anchor", anchor)
	out, _ = sjson.Set(out, "head", head)
	return out
}

// SelectionFromJSON decodes json into a live Selection against doc,
// clamping to the document's length if doc reports one.
func SelectionFromJSON(doc Doc, json string) (Selection, error) {
	if !gjson.Valid(json) {
		return nil, fmt.Errorf("step: invalid selection json %q", json)
	}
	anchor := int(gjson.Get(json, "anchor").Int())
	head := int(gjson.Get(json, "head").Int())
	if l, ok := doc.(lengther); ok {
		anchor = clamp(anchor, 0, l.Len())
		head = clamp(head, 0, l.Len())
	}
	return TextSelection{Anchor: anchor, Head: head}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
