// Package model defines the editable field tree behind the JSON builder. A
// Field carries a key, a FieldType and, for nested fields, an ordered list of
// children. Tree stores the forest as an arena of nodes addressed by ID with a
// parent-to-children index, so editing a node at any depth touches a single
// slot instead of rebuilding every ancestor. Paths ([]int of sibling indices)
// address nodes the same way the editor UI does: the empty path is the root
// forest, Path{1, 0} is the first child of the second root field.
//
// Tree is not safe for concurrent use; callers own a single writer (see
// pkg/editor). IDs come from an injected IDGenerator and are only identity
// keys for UI reconciliation, never part of the projected JSON.
package model
