package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/mattn/go-runewidth"
)

// previewWidth is the display width of progress previews and raw excerpts.
const previewWidth = 60

// preview returns the tail of text that fits in width terminal cells, on one
// line.
func preview(text string, width int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if runewidth.StringWidth(flat) <= width {
		return flat
	}
	// Keep the most recent text: reverse, truncate, reverse back.
	rs := []rune(flat)
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	cut := []rune(runewidth.Truncate(string(rs), width, "…"))
	for i, j := 0, len(cut)-1; i < j; i, j = i+1, j-1 {
		cut[i], cut[j] = cut[j], cut[i]
	}
	return string(cut)
}

// progress writes one line per partial view.
func (a *app) progress(w io.Writer) func(distill.PartialView) {
	return func(v distill.PartialView) {
		status := "streaming"
		if v.Value != nil {
			status = "parsed"
		}
		fmt.Fprintf(w, "%s %s\n",
			a.styles.label.Render(fmt.Sprintf("%s %6d chars", status, v.Chars)),
			a.styles.muted.Render(preview(v.Text, previewWidth)))
	}
}

// printResult writes the value to stdout and diagnostics to stderr. It
// returns the result's error so the command exits non-zero on failure.
func (a *app) printResult(res distill.Result) error {
	if !res.OK() {
		a.printFailure(res)
		return res.Err
	}
	if res.RepairedBy != "" {
		fmt.Fprintln(a.stderr, a.styles.repaired.Render("repaired by "+res.RepairedBy+" strategy"))
	}
	if s, ok := res.Value.(string); ok {
		fmt.Fprintln(a.stdout, s)
		return nil
	}
	out, err := json.MarshalIndent(res.Value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}

func (a *app) printFailure(res distill.Result) {
	var rf *distill.RepairFailure
	if !errors.As(res.Err, &rf) {
		fmt.Fprintln(a.stderr, a.styles.err.Render("error: ")+res.Err.Error())
		if res.Raw != "" {
			fmt.Fprintln(a.stderr, a.styles.muted.Render("partial: "+preview(res.Raw, previewWidth)))
		}
		return
	}
	fmt.Fprintln(a.stderr, a.styles.err.Render("could not parse the response"))
	fmt.Fprintf(a.stderr, "  %s %s\n", a.styles.label.Render("original:"), rf.OriginalError)
	fmt.Fprintf(a.stderr, "  %s %s\n", a.styles.label.Render("basic:   "), rf.BasicError)
	fmt.Fprintf(a.stderr, "  %s %s\n", a.styles.label.Render("advanced:"), rf.AdvancedError)
	fmt.Fprintf(a.stderr, "  %s %s\n", a.styles.label.Render("raw:     "), a.styles.muted.Render(preview(rf.RawText, previewWidth)))
}

// printAttempts lists each repair strategy that ran.
func (a *app) printAttempts(attempts []distill.RepairAttempt) {
	for _, at := range attempts {
		status := a.styles.success.Render("ok")
		if at.ParseError != "" {
			status = a.styles.err.Render(at.ParseError)
		}
		fmt.Fprintf(a.stderr, "%s %s\n  %s\n",
			a.styles.label.Render(at.Strategy+":"), status,
			a.styles.muted.Render(preview(at.Output, previewWidth)))
	}
}
