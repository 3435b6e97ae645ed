package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// NodeSchema describes how one element type participates in the tree:
// whether it can be deleted, whether it is a content branch (can directly
// hold character content), whether it is itself inline content embedded in
// a branch, whether its children should be skipped by annotation, and which
// annotation types it accepts when it is annotatable content.
type NodeSchema struct {
	Type              string   `yaml:"type"`
	Deletable         *bool    `yaml:"deletable,omitempty"`
	CanContainContent bool     `yaml:"canContainContent,omitempty"`
	IsContent         bool     `yaml:"isContent,omitempty"`
	IgnoreChildren    bool     `yaml:"ignoreChildren,omitempty"`
	Annotations       []string `yaml:"annotations,omitempty"`
}

// NodeFactory answers the structural questions the transaction core asks
// about element types, loaded from a YAML node schema (see LoadNodeFactory).
type NodeFactory struct {
	schemas map[string]NodeSchema
}

// defaultSchemaYAML is the built-in node schema used by DefaultNodeFactory.
// It covers the element vocabulary exercised by this package's tests and by
// the transaction core's own constructors: a root container, content
// branches, list/table structure and two inline content nodes (image and
// reference).
const defaultSchemaYAML = `
- type: document
  deletable: false
- type: internalList
  deletable: false
- type: internalItem
  deletable: false
- type: paragraph
  canContainContent: true
- type: heading
  canContainContent: true
- type: preformatted
  canContainContent: true
- type: tableCaption
  canContainContent: true
- type: list
- type: listItem
- type: table
- type: tableSection
- type: tableRow
- type: tableCell
- type: image
  isContent: true
- type: reference
  isContent: true
`

var defaultNodeFactory *NodeFactory

func init() {
	nf, err := LoadNodeFactory([]byte(defaultSchemaYAML))
	if err != nil {
		panic(fmt.Sprintf("document: invalid built-in node schema: %v", err))
	}
	defaultNodeFactory = nf
}

// DefaultNodeFactory returns the package's built-in node schema.
func DefaultNodeFactory() *NodeFactory {
	return defaultNodeFactory
}

// LoadNodeFactory parses a YAML list of NodeSchema entries into a
// NodeFactory. This is the configuration surface a host application uses to
// teach the document model about its own element vocabulary instead of the
// built-in one.
func LoadNodeFactory(yamlDoc []byte) (*NodeFactory, error) {
	var list []NodeSchema
	if err := yaml.Unmarshal(yamlDoc, &list); err != nil {
		return nil, fmt.Errorf("document: parse node schema: %w", err)
	}
	schemas := make(map[string]NodeSchema, len(list))
	for _, s := range list {
		schemas[s.Type] = s
	}
	return &NodeFactory{schemas: schemas}, nil
}

// IsNodeDeletable reports whether elementType may be removed by
// addSafeRemoveOps. Unknown types default to deletable.
func (f *NodeFactory) IsNodeDeletable(elementType string) bool {
	s, ok := f.schemas[elementType]
	if !ok || s.Deletable == nil {
		return true
	}
	return *s.Deletable
}

// CanNodeContainContent reports whether elementType is a content branch.
func (f *NodeFactory) CanNodeContainContent(elementType string) bool {
	return f.schemas[elementType].CanContainContent
}

// IsNodeContent reports whether elementType is itself inline content.
func (f *NodeFactory) IsNodeContent(elementType string) bool {
	return f.schemas[elementType].IsContent
}

// ShouldIgnoreChildren reports whether annotation should not descend into
// elementType's subtree.
func (f *NodeFactory) ShouldIgnoreChildren(elementType string) bool {
	return f.schemas[elementType].IgnoreChildren
}

// CanNodeTakeAnnotationType reports whether elementType accepts annotations
// of the given kind. Unknown types accept nothing; a known type with no
// explicit Annotations list accepts every kind.
func (f *NodeFactory) CanNodeTakeAnnotationType(elementType, annotationType string) bool {
	s, ok := f.schemas[elementType]
	if !ok {
		return false
	}
	if len(s.Annotations) == 0 {
		return true
	}
	for _, a := range s.Annotations {
		if a == annotationType {
			return true
		}
	}
	return false
}
