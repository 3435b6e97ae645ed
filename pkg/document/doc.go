// Package document provides the linear-model document representation
// consumed by the transaction core in package transaction.
//
// A document is a flat, ordered sequence of items: characters (optionally
// carrying annotation indices) and element markers (an opening marker
// {type, attributes} paired with a closing marker {/type}). A document is
// well-formed when it is the pre-order traversal of a balanced tree: every
// opening marker has a matching closing marker at the same depth.
//
// This package is the external collaborator the transaction core relies on:
// the transaction core never parses the tree itself, it asks a Document for
// tree-level facts (FixupInsertion, SelectNodes, node attributes) through
// the interfaces defined here. The concrete Document, Node and NodeFactory
// types in this package implement that contract well enough to exercise
// and test the transaction core end to end.
package document
