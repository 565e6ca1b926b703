// Package analyzer estimates how long a flow runs without running it.
//
// Flow source is lowered into a small call tree (Node) by a frontend: the Go
// frontend in this package reads scene.go files with go/parser, and the
// script package lowers YAML scene scripts. Duration rules are evaluated over
// the tree and mirror the runtime semantics of the motion combinators:
//
//	All          max of children
//	Chain        sum of children
//	Sequence     sum of yielded tasks
//	WaitFor(n)   n
//	Delay(n, t)  n + t
//	Repeat(n, f) n * body
//	Fade/Slide/Zoom(n)  n
//	x.Text(s, n) n
//	any other    its last numeric literal argument
//
// Arguments that are not literals are never evaluated and count as zero.
// Analysis never fails: a scene that cannot be read gets FallbackDuration.
package analyzer

import (
	"strings"

	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
)

// FallbackDuration is the estimate for a scene whose flow cannot be analysed.
const FallbackDuration = 10.0

// Kind classifies a Node.
type Kind int

const (
	// KindBlock sums its children; statement lists lower to blocks.
	KindBlock Kind = iota
	// KindCall is one call-like expression with its arguments.
	KindCall
	// KindLoop repeats its children Count times.
	KindLoop
	// KindBranch takes the longest child.
	KindBranch
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindCall:
		return "call"
	case KindLoop:
		return "loop"
	case KindBranch:
		return "branch"
	default:
		return "unknown"
	}
}

// Node is one element of a flow's call tree.
type Node struct {
	Kind Kind
	// Name is the callee name for calls, e.g. "All" or "Text".
	Name string
	// Member is set for method-style calls (x.Text(...)).
	Member bool
	Args   []Arg
	// Children hold the statements of blocks, loops and branches.
	Children []*Node
	// Count is the iteration count of a loop.
	Count int
	// Pos is a human readable source position, when known.
	Pos string
}

// Arg is one call argument. At most one of Node, IsNum and IsStr is set.
type Arg struct {
	Node  *Node
	Num   float64
	IsNum bool
	Str   string
	IsStr bool
}

// NumArg returns a numeric literal argument.
func NumArg(v float64) Arg { return Arg{Num: v, IsNum: true} }

// StrArg returns a string literal argument.
func StrArg(s string) Arg { return Arg{Str: s, IsStr: true} }

// NodeArg returns an argument holding a nested call or body.
func NodeArg(n *Node) Arg { return Arg{Node: n} }

// Call builds a call node.
func Call(name string, args ...Arg) *Node {
	return &Node{Kind: KindCall, Name: name, Args: args}
}

// Block builds a block node, dropping nil children.
func Block(children ...*Node) *Node {
	n := &Node{Kind: KindBlock}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Transition is a scene's leading transition.
type Transition struct {
	Kind     motion.TransitionKind `json:"type"`
	Duration float64               `json:"duration"`
}

// Estimate is the static analysis result for one scene.
type Estimate struct {
	Duration   float64     `json:"duration"`
	Transition *Transition `json:"transition,omitempty"`
	// Fallback is set when the flow could not be analysed.
	Fallback    bool     `json:"fallback,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Fallback returns the estimate used when analysis fails.
func Fallback(diagnostic string) Estimate {
	return Estimate{Duration: FallbackDuration, Fallback: true, Diagnostics: []string{diagnostic}}
}

// Analyze evaluates root. A nil root yields the fallback estimate.
func Analyze(root *Node) (est Estimate) {
	if root == nil {
		return Fallback("no flow")
	}
	defer func() {
		if r := recover(); r != nil {
			est = Fallback("analysis failed")
		}
	}()
	return Estimate{Duration: root.Duration(), Transition: root.Leading()}
}

// Duration evaluates the duration rules over n.
func (n *Node) Duration() float64 {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindBlock:
		return sum(n.Children)
	case KindLoop:
		return float64(max(n.Count, 0)) * sum(n.Children)
	case KindBranch:
		longest := 0.0
		for _, c := range n.Children {
			longest = max(longest, c.Duration())
		}
		return longest
	case KindCall:
		return max(n.callDuration(), 0)
	}
	return 0
}

func (n *Node) callDuration() float64 {
	switch strings.ToLower(n.Name) {
	case "all":
		longest := 0.0
		for _, c := range n.nodeArgs() {
			longest = max(longest, c.Duration())
		}
		return longest
	case "chain", "sequence", "yield":
		return sum(n.nodeArgs())
	case "waitfor", "fade", "slide", "zoom":
		return n.num(0)
	case "delay":
		return max(n.num(0), 0) + n.node(1).Duration()
	case "repeat":
		return max(n.num(0), 0) * n.node(1).Duration()
	}

	if n.Member && strings.EqualFold(n.Name, "text") {
		return n.num(1)
	}
	for i := len(n.Args) - 1; i >= 0; i-- {
		if n.Args[i].IsNum {
			return n.Args[i].Num
		}
	}
	// A call with no literal duration of its own, such as Animate taking an
	// Animation value, takes its longest nested argument.
	longest := 0.0
	for _, c := range n.nodeArgs() {
		longest = max(longest, c.Duration())
	}
	return longest
}

// Leading returns the transition n starts with, if any. Only the first
// statement counts; a returned Chain or Sequence is looked through.
func (n *Node) Leading() *Transition {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindBlock:
		if len(n.Children) == 0 {
			return nil
		}
		return n.Children[0].Leading()
	case KindCall:
		name := strings.ToLower(n.Name)
		if kind := motion.TransitionKind(name); kind.Valid() {
			return &Transition{Kind: kind, Duration: max(n.num(0), 0)}
		}
		switch name {
		case "chain", "sequence", "yield":
			if args := n.nodeArgs(); len(args) > 0 {
				return args[0].Leading()
			}
		}
	}
	return nil
}

// Walk calls fn for n and every node beneath it, depth first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, a := range n.Args {
		a.Node.Walk(fn)
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

func (n *Node) num(i int) float64 {
	if i < len(n.Args) && n.Args[i].IsNum {
		return n.Args[i].Num
	}
	return 0
}

func (n *Node) node(i int) *Node {
	if i < len(n.Args) {
		return n.Args[i].Node
	}
	return nil
}

func (n *Node) nodeArgs() []*Node {
	var out []*Node
	for _, a := range n.Args {
		if a.Node != nil {
			out = append(out, a.Node)
		}
	}
	return out
}

func sum(nodes []*Node) float64 {
	total := 0.0
	for _, c := range nodes {
		total += c.Duration()
	}
	return total
}
