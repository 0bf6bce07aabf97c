// Package ax implements the accessibility-translation bridge: it turns the
// host's asynchronous, lazily-resolved accessibility graph into two
// synchronous, deadline-bounded queries returning a uniform tree model with
// frames renormalized into iOS-point space.
package ax

import "math"

// Frame is a rectangle in iOS points, rounded to 2 decimals once finalized.
type Frame struct {
	X, Y, W, H float64
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TreeNode is the uniform accessibility-element record returned by both the
// tree and point queries.
type TreeNode struct {
	Role       string
	Label      string
	Title      string
	Value      string
	Identifier string
	Hint       string
	Traits     []string
	Frame      *Frame
	Children   []*TreeNode
}

// HasFrame reports whether the node carries a measured frame.
func (n *TreeNode) HasFrame() bool { return n.Frame != nil }

// Center returns the frame's center point, rounded to the nearest integer
// (per the markdown serializer's line format).
func (f *Frame) Center() (cx, cy int) {
	return int(math.Round(f.X + f.W/2)), int(math.Round(f.Y + f.H/2))
}

// HalfExtents returns the frame's half-width/half-height, rounded to the
// nearest integer.
func (f *Frame) HalfExtents() (hw, hh int) {
	return int(math.Round(f.W / 2)), int(math.Round(f.H / 2))
}

// Walk performs a pre-order traversal of the tree rooted at n, calling fn
// for every node until fn returns false or the optional maxDepth (nil means
// unbounded) is exceeded. depth 0 is the root itself.
func Walk(n *TreeNode, maxDepth *int, fn func(node *TreeNode, depth int) bool) {
	walk(n, 0, maxDepth, fn)
}

func walk(n *TreeNode, depth int, maxDepth *int, fn func(*TreeNode, int) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, depth) {
		return false
	}
	if maxDepth != nil && depth >= *maxDepth {
		return true
	}
	for _, child := range n.Children {
		if !walk(child, depth+1, maxDepth, fn) {
			return false
		}
	}
	return true
}

// renormalize rewrites every frame in the tree from host-window coordinate
// space into iOS-point space, per the width-anchored uniform-scale,
// vertical-letterboxing transform: scale = W_pt/W_r (root width in window
// space), y_offset = (H_pt - H_r*scale)/2.
func renormalize(root *TreeNode, pointW, pointH float64) {
	if root == nil || root.Frame == nil {
		return
	}
	rootX, rootY, rootW, rootH := root.Frame.X, root.Frame.Y, root.Frame.W, root.Frame.H
	if rootW <= 0 {
		return
	}
	scale := pointW / rootW
	yOffset := (pointH - rootH*scale) / 2

	var apply func(n *TreeNode)
	apply = func(n *TreeNode) {
		if n.Frame != nil {
			n.Frame = &Frame{
				X: round2((n.Frame.X - rootX) * scale),
				Y: round2((n.Frame.Y-rootY)*scale + yOffset),
				W: round2(n.Frame.W * scale),
				H: round2(n.Frame.H * scale),
			}
		}
		for _, c := range n.Children {
			apply(c)
		}
	}
	apply(root)
}
