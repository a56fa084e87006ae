// Package docs holds the fsc documentation topics, embedded markdown files
// whose fenced ```formula``` blocks are example formulas.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Index is the name of the topic listing every other topic.
const Index = "readme"

// Info strings of the fenced blocks holding formulas.
const (
	FormulaBlock = "formula"
	RejectBlock  = "formula reject"
)

//go:embed *.md
var docs embed.FS

// Example is a formula found in a topic. Rejected examples illustrate what
// the formula language refuses.
type Example struct {
	Topic   string
	Line    int
	Formula string
	Reject  bool
}

// GetTopic returns the content of a documentation topic, "*" for all of them.
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		topics, err := GetAllTopics()
		if err != nil {
			return "", err
		}
		return GetTopics(topics...)
	}
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics returns the content of several topics, separated by a blank line.
func GetTopics(topics ...string) (string, error) {
	var b bytes.Buffer
	for _, topic := range topics {
		content, err := GetTopic(topic)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		if topic != "*" {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// GetAllTopics returns the sorted topic names, the index excluded.
func GetAllTopics() ([]string, error) {
	files, err := fs.Glob(docs, "*.md")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, f := range files {
		if name := strings.TrimSuffix(path.Base(f), ".md"); name != Index {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics, nil
}

// Examples returns the formulas of a topic in document order, "*" for the
// formulas of every topic.
func Examples(topic string) ([]Example, error) {
	topics := []string{topic}
	if topic == "*" {
		var err error
		if topics, err = GetAllTopics(); err != nil {
			return nil, err
		}
	}
	var res []Example
	for _, t := range topics {
		content, err := docs.ReadFile(t + ".md")
		if err != nil {
			return nil, fmt.Errorf("topic %q not found: %w", t, err)
		}
		res = append(res, examples(t, content)...)
	}
	return res, nil
}

// examples walks the markdown of a topic for formula blocks. Each line of a
// block is one formula.
func examples(topic string, content []byte) []Example {
	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	var res []Example
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		info := strings.TrimSpace(string(fcb.Info.Segment.Value(content)))
		if info != FormulaBlock && info != RejectBlock {
			return ast.WalkContinue, nil
		}
		for i := 0; i < fcb.Lines().Len(); i++ {
			seg := fcb.Lines().At(i)
			f := strings.TrimSpace(string(seg.Value(content)))
			if f == "" {
				continue
			}
			res = append(res, Example{
				Topic:   topic,
				Line:    lineNumber(content, seg.Start),
				Formula: f,
				Reject:  info == RejectBlock,
			})
		}
		return ast.WalkSkipChildren, nil
	})
	return res
}

// lineNumber computes the line number of an offset, goldmark only keeps
// offsets.
func lineNumber(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
