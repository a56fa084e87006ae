package renderer

import (
	"bytes"
	"io"
	"strings"

	"github.com/etnz/fundscreen"
	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// cell formats a dataset value for a markdown table.
func cell(v fundscreen.Value) string {
	switch {
	case v.IsMissing():
		return "N/A"
	case v.IsNumber():
		return v.Decimal().Round(2).String()
	}
	return escape(v.Text())
}

// escape protects the pipes of a table cell.
func escape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func percent(d decimal.Decimal) string       { return fundscreen.P(d).String() }
func signedPercent(d decimal.Decimal) string { return fundscreen.P(d).SignedString() }
