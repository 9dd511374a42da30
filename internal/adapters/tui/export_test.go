package tui

// FlattenTree exposes flattenTree for tests.
var FlattenTree = flattenTree
