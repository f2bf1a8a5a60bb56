// Package params normalizes arbitrary workflow-graph JSON dumps into the
// canonical GenerationParameters record.
//
// Different producer versions nest the same logical field ("seed",
// "steps", "positive_prompt", ...) under different node names, so lookup
// runs in three stages: fixed paths, then a whole-tree fallback search,
// with every key comparison normalized (underscores, hyphens, and spaces
// stripped, then lowercased).
//
// gjson is used instead of encoding/json because the fallback search runs
// in document order (the first matching property of an object wins before
// any child is explored) and Go maps do not preserve JSON property order.
package params

import (
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// normalizeKey strips '_', '-', and spaces, then lowercases, so that
// "num_frames", "numFrames", and "Num Frames" all compare equal.
func normalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '_', '-', ' ':
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// childFold returns the value of the property whose name equals name
// case-insensitively (no punctuation stripping; this is the envelope
// check, not the normalized field comparison).
func childFold(doc gjson.Result, name string) (gjson.Result, bool) {
	var hit gjson.Result
	found := false
	doc.ForEach(func(k, v gjson.Result) bool {
		if strings.EqualFold(k.String(), name) {
			hit = v
			found = true
			return false
		}
		return true
	})
	return hit, found
}

// normalizeRoot unwraps producer envelopes: a string value that itself
// parses as JSON is replaced by its nested parse (double-encoded graphs),
// and an object with a property named "prompt" (case-insensitive) is
// replaced by that property's value. The loop stops as soon as neither
// rule applies; each step strictly shrinks the remaining structure, so it
// always terminates.
func normalizeRoot(doc gjson.Result) gjson.Result {
	for {
		if doc.Type == gjson.String {
			inner := doc.Str
			if gjson.Valid(inner) {
				doc = gjson.Parse(inner)
				continue
			}
			return doc
		}
		if doc.IsObject() {
			if v, ok := childFold(doc, "prompt"); ok {
				doc = v
				continue
			}
		}
		return doc
	}
}

// lookupPath descends object properties matching each segment under the
// normalized comparison. Fails (ok=false) if any segment is missing or a
// non-object is reached before the path ends.
func lookupPath(doc gjson.Result, path []string) (gjson.Result, bool) {
	cur := doc
	for _, seg := range path {
		if !cur.IsObject() {
			return gjson.Result{}, false
		}
		want := normalizeKey(seg)
		var next gjson.Result
		found := false
		cur.ForEach(func(k, v gjson.Result) bool {
			if normalizeKey(k.String()) == want {
				next = v
				found = true
				return false
			}
			return true
		})
		if !found {
			return gjson.Result{}, false
		}
		cur = next
	}
	return cur, true
}

// searchTree performs a depth-first search over the whole tree for the
// first property whose normalized name matches key. An object's own
// properties are all checked before any of them is recursed into;
// properties and array elements are visited in document order.
func searchTree(doc gjson.Result, key string) (gjson.Result, bool) {
	want := normalizeKey(key)

	if doc.IsObject() {
		var hit gjson.Result
		found := false
		doc.ForEach(func(k, v gjson.Result) bool {
			if normalizeKey(k.String()) == want {
				hit = v
				found = true
				return false
			}
			return true
		})
		if found {
			return hit, true
		}
	}

	if doc.IsObject() || doc.IsArray() {
		var hit gjson.Result
		found := false
		doc.ForEach(func(_, v gjson.Result) bool {
			if r, ok := searchTree(v, key); ok {
				hit = r
				found = true
				return false
			}
			return true
		})
		return hit, found
	}

	return gjson.Result{}, false
}
