package repair

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// fencedBlock returns the contents of the first fenced code block in a
// markdown document. Models often wrap the JSON in prose ("Here is the
// review: ```json ... ``` Let me know"), which StripFence cannot see past.
func fencedBlock(source string) (string, bool) {
	if !strings.Contains(source, fence) {
		return "", false
	}
	src := []byte(source)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var block *ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fcb, ok := n.(*ast.FencedCodeBlock); ok {
			block = fcb
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if block == nil {
		return "", false
	}

	var b strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String(), true
}
