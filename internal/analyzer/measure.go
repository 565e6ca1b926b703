package analyzer

import (
	"sort"
	"strings"

	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// Measure runs a fresh root from flow in fixed steps with updates suppressed
// and returns the exact time it took to finish. It gives up after limit
// seconds and reports false.
func Measure(flow motion.Flow, step, limit float64) (float64, bool) {
	if step <= 0 {
		step = 1.0 / 60
	}

	restore := motion.Suppress()
	defer restore()

	root := flow()
	defer motion.Stop(root)

	elapsed := 0.0
	for elapsed < limit {
		elapsed += step
		if root.Next(step) {
			if o, ok := root.(motion.Overshooter); ok {
				elapsed -= o.Leftover()
			}
			return elapsed, true
		}
	}
	return elapsed, false
}

// tokenCalls lists the calls whose string arguments are style tokens.
var tokenCalls = map[string]bool{
	"animate":     true,
	"animatefrom": true,
	"set":         true,
	"animation":   true,
}

// Tokens returns the distinct style tokens named by animate-style calls
// under root, sorted.
func Tokens(root *Node) []string {
	seen := make(map[string]bool)
	root.Walk(func(n *Node) {
		if n.Kind != KindCall || !tokenCalls[strings.ToLower(n.Name)] {
			return
		}
		for _, a := range n.Args {
			if !a.IsStr {
				continue
			}
			for _, t := range style.Split(a.Str) {
				seen[t] = true
			}
		}
	})

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// UnknownTokens returns the tokens under root that do not parse.
func UnknownTokens(root *Node) []string {
	var out []string
	for _, t := range Tokens(root) {
		if _, ok := style.Parse(t); !ok {
			out = append(out, t)
		}
	}
	return out
}
