// Package normalize reduces raw graph records into flat Scrap values.
//
// A record contributes a Scrap when one of its values is a node labelled
// Scrap. Related scraps are picked up from indexed column groups named
// relationType<N>, relationStrength<N>, reasoning<N> and related<N>, where
// N is any non-negative integer chosen by the query. Records without a
// Scrap node are skipped.
package normalize
