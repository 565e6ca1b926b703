package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// WriteTrace writes res as a line-oriented text trace: a summary line, one
// line per scene span, then one line per record. The run id is left out so
// traces of identical renders compare equal.
func WriteTrace(w io.Writer, res *Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "frames=%d duration=%s truncated=%t\n",
		res.Frames, style.FormatNumber(res.Duration), res.Truncated)
	for _, s := range res.Scenes {
		state := "finished"
		if !s.Finished {
			state = "cut"
		}
		fmt.Fprintf(bw, "scene %s %d-%d %s\n", s.Scene, s.FirstFrame, s.LastFrame, state)
	}
	WriteRecords(bw, res.Records)
	return bw.Flush()
}

// WriteRecords writes one "frame time scene target property value" line per
// record.
func WriteRecords(w io.Writer, records []sink.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "%d %s %s %s %s %s\n",
			r.Frame, style.FormatNumber(r.Time), r.Scene, r.Target, r.Property, r.Value)
	}
}
