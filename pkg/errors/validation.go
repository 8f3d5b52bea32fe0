package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds node names and node types read from scenes and flags.
const maxNameLength = 256

// ValidateNodeName validates a node name taken from a selection or scene file.
//
// Maya node names may contain namespaces (":") and DAG separators ("|"), so
// only empty names, control characters and overlong names are rejected.
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidNodeName, "node name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidNodeName, "node name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeName, "node name contains invalid control characters")
		}
	}
	return nil
}

// ValidateNodeType validates a node type before it is used as a template key.
// Template files are looked up as <dir>/<type>.xml, so the type must be a
// plain file stem.
func ValidateNodeType(typ string) error {
	if typ == "" {
		return New(ErrCodeInvalidNodeType, "node type cannot be empty")
	}
	if len(typ) > maxNameLength {
		return New(ErrCodeInvalidNodeType, "node type too long (max %d characters)", maxNameLength)
	}
	if strings.ContainsAny(typ, "/\\") || strings.Contains(typ, "..") {
		return New(ErrCodeInvalidNodeType, "node type contains path characters: %q", typ)
	}
	for _, r := range typ {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidNodeType, "node type contains invalid characters: %q", typ)
		}
	}
	return nil
}
