package distill

import (
	"fmt"
	"strings"
)

// ShapeKind is the top-level JSON kind a call site expects.
type ShapeKind int

const (
	KindAny    ShapeKind = iota // Any JSON document.
	KindArray                   // A JSON array.
	KindObject                  // A JSON object.
	KindText                    // Plain text; never parsed or repaired.
)

func (k ShapeKind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Shape describes what a call site considers a finished document. Accept
// decides whether a parsed value is worth rendering; a nil Accept accepts
// everything of the right kind.
type Shape struct {
	Kind   ShapeKind
	Accept func(v any) bool
}

// Matches reports whether v has the expected kind and passes Accept.
func (s Shape) Matches(v any) bool {
	switch s.Kind {
	case KindArray:
		if _, ok := v.([]any); !ok {
			return false
		}
	case KindObject:
		if _, ok := v.(map[string]any); !ok {
			return false
		}
	}
	if s.Accept == nil {
		return true
	}
	return s.Accept(v)
}

// AnyJSON accepts any parsed document.
func AnyJSON() Shape {
	return Shape{Kind: KindAny}
}

// Text marks a call site that expects plain text, such as a chat answer.
func Text() Shape {
	return Shape{Kind: KindText}
}

// ArrayOf accepts a non-empty array whose first element is an object carrying
// every key of at least one variant. With no variants any non-empty array of
// objects is accepted.
func ArrayOf(variants ...[]string) Shape {
	return Shape{
		Kind: KindArray,
		Accept: func(v any) bool {
			items, _ := v.([]any)
			if len(items) == 0 {
				return false
			}
			first, ok := items[0].(map[string]any)
			if !ok {
				return false
			}
			if len(variants) == 0 {
				return true
			}
			for _, keys := range variants {
				if hasKeys(first, keys) {
					return true
				}
			}
			return false
		},
	}
}

// ObjectWith accepts an object carrying every one of keys.
func ObjectWith(keys ...string) Shape {
	return Shape{
		Kind: KindObject,
		Accept: func(v any) bool {
			obj, _ := v.(map[string]any)
			return hasKeys(obj, keys)
		},
	}
}

// ReviewItems is the shape of code review results: an array of findings,
// either described in prose or as a current/suggested code pair.
func ReviewItems() Shape {
	return ArrayOf(
		[]string{"file", "severity", "issue"},
		[]string{"file", "current", "suggested"},
	)
}

// Actions is the shape of merge request and issue action payloads.
func Actions() Shape {
	return ObjectWith("summary", "actions")
}

func hasKeys(obj map[string]any, keys []string) bool {
	if obj == nil {
		return false
	}
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return false
		}
	}
	return true
}

// Shape names accepted by [ParseShape].
const (
	ShapeNameAny     = "any"
	ShapeNameText    = "text"
	ShapeNameReview  = "review"
	ShapeNameActions = "actions"
)

// ShapeNames lists the names accepted by [ParseShape].
func ShapeNames() []string {
	return []string{ShapeNameAny, ShapeNameText, ShapeNameReview, ShapeNameActions}
}

// ParseShape resolves a shape by name. Matching is case-insensitive.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ShapeNameAny, "":
		return AnyJSON(), nil
	case ShapeNameText:
		return Text(), nil
	case ShapeNameReview:
		return ReviewItems(), nil
	case ShapeNameActions:
		return Actions(), nil
	}
	return Shape{}, fmt.Errorf("unknown shape %q: %w", name, ErrValidation)
}
