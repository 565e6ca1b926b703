package harness

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// WriteTrace writes res as a line-oriented text trace: the estimate, every
// trace event in order, then the final surface sorted by element and
// property. Times are rounded to microseconds so float noise in host frame
// intervals does not leak into golden files.
func WriteTrace(w io.Writer, res *Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "scenario %s\n", res.Name)
	fmt.Fprintf(bw, "estimate %s", seconds(res.Estimate.Duration))
	if tr := res.Estimate.Transition; tr != nil {
		fmt.Fprintf(bw, " %s/%s", tr.Kind, seconds(tr.Duration))
	}
	if res.Estimate.Fallback {
		fmt.Fprint(bw, " fallback")
	}
	fmt.Fprintln(bw)

	for _, e := range res.Trace {
		fmt.Fprintf(bw, "#%d frame=%d clock=%s %s", e.Seq, e.Frame, seconds(e.Clock), e.Kind)
		switch e.Kind {
		case EventApply:
			fmt.Fprintf(bw, " %s %s %s", e.Target, e.Property, e.Value)
		case EventSeek:
			fmt.Fprintf(bw, " elapsed=%s finished=%t", seconds(e.Elapsed), e.Finished)
		default:
			fmt.Fprintf(bw, " elapsed=%s", seconds(e.Elapsed))
		}
		fmt.Fprintln(bw)
	}

	ids := make([]string, 0, len(res.Final))
	for id := range res.Final {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		props := res.Final[id]
		names := make([]string, 0, len(props))
		for p := range props {
			names = append(names, p)
		}
		sort.Strings(names)
		for _, p := range names {
			fmt.Fprintf(bw, "final %s %s %s\n", id, p, props[p])
		}
	}
	return bw.Flush()
}

func seconds(v float64) string {
	return style.FormatNumber(math.Round(v*1e6) / 1e6)
}

// RunWithGolden executes a scenario and compares its trace against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) (*Result, error) {
	t.Helper()

	res, err := Run(context.Background(), sc)
	if err != nil {
		return nil, err
	}
	return res, AssertGolden(t, sc.Name, res)
}

// AssertGolden compares an existing result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, res *Result) error {
	t.Helper()

	var buf bytes.Buffer
	if err := WriteTrace(&buf, res); err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
	return nil
}
