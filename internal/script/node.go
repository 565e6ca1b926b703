package script

import (
	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
)

// Node lowers the script to the analyzer's call tree. The top-level list is
// a block, so its first step is the leading-transition candidate.
func (s *Script) Node() *analyzer.Node {
	return analyzer.Block(nodes(s.Flow)...)
}

func nodes(steps []Step) []*analyzer.Node {
	out := make([]*analyzer.Node, len(steps))
	for i := range steps {
		out[i] = steps[i].node()
	}
	return out
}

func chainNode(steps []Step) *analyzer.Node {
	return analyzer.Call("Chain", nodeArgs(steps)...)
}

func nodeArgs(steps []Step) []analyzer.Arg {
	args := make([]analyzer.Arg, len(steps))
	for i, n := range nodes(steps) {
		args[i] = analyzer.NodeArg(n)
	}
	return args
}

func (st *Step) node() *analyzer.Node {
	switch {
	case st.Wait != nil:
		return analyzer.Call("WaitFor", analyzer.NumArg(*st.Wait))
	case st.Fade != nil:
		return analyzer.Call("Fade", analyzer.NumArg(*st.Fade))
	case st.Slide != nil:
		return analyzer.Call("Slide", analyzer.NumArg(*st.Slide))
	case st.Zoom != nil:
		return analyzer.Call("Zoom", analyzer.NumArg(*st.Zoom))
	case st.All != nil:
		return analyzer.Call("All", nodeArgs(st.All)...)
	case st.Chain != nil:
		return chainNode(st.Chain)
	case st.Delay != nil:
		return analyzer.Call("Delay",
			analyzer.NumArg(st.Delay.Seconds),
			analyzer.NodeArg(chainNode(st.Delay.Do)))
	case st.Repeat != nil:
		return analyzer.Call("Repeat",
			analyzer.NumArg(float64(st.Repeat.Count)),
			analyzer.NodeArg(chainNode(st.Repeat.Do)))
	case st.Animate != nil:
		a := st.Animate
		return analyzer.Call("AnimateFrom",
			analyzer.StrArg(a.From),
			analyzer.StrArg(a.To),
			analyzer.NumArg(a.Duration))
	case st.Text != nil:
		n := analyzer.Call("Text",
			analyzer.StrArg(st.Text.Content),
			analyzer.NumArg(st.Text.Duration))
		n.Member = true
		return n
	case st.Set != nil:
		return analyzer.Call("Set", analyzer.StrArg(st.Set.To))
	}
	return nil
}
