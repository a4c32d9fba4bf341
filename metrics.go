package webclip

import "strings"

// CollectionMetrics summarizes a collected article. ProcessingTime is in
// milliseconds; all other fields are non-negative counts.
type CollectionMetrics struct {
	Images         int   `json:"images"`
	Formulas       int   `json:"formulas"`
	Tables         int   `json:"tables"`
	CodeBlocks     int   `json:"codeBlocks"`
	WordCount      int   `json:"wordCount"`
	ProcessingTime int64 `json:"processingTime"`
}

// ComputeMetrics walks the final AST and the asset manifest to produce
// collection metrics. Image and formula counts come from the manifest
// (the authoritative record of what survived conversion); table and code
// block counts come from the tree.
func ComputeMetrics(root *Node, assets *AssetManifest) CollectionMetrics {
	var m CollectionMetrics
	if assets != nil {
		m.Images = len(assets.Images)
		m.Formulas = len(assets.Formulas)
	}
	root.Walk(func(n *Node) {
		switch n.Type {
		case NodeTable:
			m.Tables++
		case NodeCodeBlock:
			m.CodeBlocks++
		}
	})
	if root != nil {
		m.WordCount = len(strings.Fields(root.PlainText()))
	}
	return m
}

// StructuralFromCollection projects collection metrics onto the subset
// the quality gate compares.
func StructuralFromCollection(m CollectionMetrics) StructuralMetrics {
	return StructuralMetrics{Images: m.Images, Formulas: m.Formulas, Tables: m.Tables}
}
