// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package node

import "fmt"

// Kind tags the variant of a [Node]. A node's kind never changes after creation.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPath
	KindProperties
	KindKeyValue
	KindValue
	KindListElement
	KindListValue
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindProperties:
		return "properties"
	case KindKeyValue:
		return "key_value"
	case KindValue:
		return "value"
	case KindListElement:
		return "list_element"
	case KindListValue:
		return "list_value"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsList reports whether k is one of the two list variants.
func (k Kind) IsList() bool {
	return k == KindListElement || k == KindListValue
}

// IsMap reports whether children of k are addressed by name.
func (k Kind) IsMap() bool {
	return k == KindPath || k == KindKeyValue || k == KindProperties
}

// accepts reports whether a node of kind k may hold a child of kind child.
func (k Kind) accepts(child Kind) bool {
	switch k {
	case KindPath:
		return child == KindPath || child == KindKeyValue || child == KindValue || child.IsList()
	case KindKeyValue, KindProperties, KindListValue:
		return child == KindValue
	case KindListElement:
		return child != KindProperties && child != KindInvalid
	default:
		return false
	}
}
