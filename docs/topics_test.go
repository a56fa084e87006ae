package docs

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/fundscreen"
	"github.com/etnz/fundscreen/formula"
)

func TestTopics(t *testing.T) {
	// This test ensures that the documentation index is in sync with the files.
	// It checks two things:
	// 1. Every topic listed in readme.md can be loaded by GetTopic.
	// 2. Every .md file (excluding readme.md itself) is listed in readme.md.

	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)

	for scanner.Scan() {
		matches := topicRegex.FindStringSubmatch(scanner.Text())
		if len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() unexpected error: %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}

	content, err := GetTopic("*")
	if err != nil {
		t.Fatalf("GetTopic(*) unexpected error: %v", err)
	}
	for _, topic := range all {
		one, _ := GetTopic(topic)
		if !strings.Contains(content, one) {
			t.Errorf("GetTopic(*) does not contain topic %q", topic)
		}
	}
}

// TestExamples checks that documented formulas are accepted, or refused
// when the block says so, against the required fund columns.
func TestExamples(t *testing.T) {
	examples, err := Examples("*")
	if err != nil {
		t.Fatalf("Examples(*) unexpected error: %v", err)
	}
	if len(examples) == 0 {
		t.Fatal("no formula example found")
	}
	for _, ex := range examples {
		_, err := formula.Compile(ex.Formula, formula.DefaultAliases(), fundscreen.RequiredColumns)
		switch {
		case ex.Reject && err == nil:
			t.Errorf("%s.md:%d: formula %q is accepted", ex.Topic, ex.Line, ex.Formula)
		case !ex.Reject && err != nil:
			t.Errorf("%s.md:%d: formula %q is rejected: %v", ex.Topic, ex.Line, ex.Formula, err)
		}
	}
}

func TestExamples_Topic(t *testing.T) {
	examples, err := Examples("formula")
	if err != nil {
		t.Fatalf("Examples(formula) unexpected error: %v", err)
	}
	want := Example{Topic: "formula", Line: 7, Formula: "return > 5 and fee < 1"}
	if len(examples) == 0 || examples[0] != want {
		t.Fatalf("Examples(formula)[0] = %v, want %v", examples, want)
	}
	last := examples[len(examples)-1]
	if !last.Reject || last.Formula != "return > 5 and fee" {
		t.Errorf("last example = %+v, want the rejected 'return > 5 and fee'", last)
	}

	if _, err := Examples("ledger"); err == nil {
		t.Error("Examples(ledger) expected an error")
	}
}
