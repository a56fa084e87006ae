package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/fundscreen"
)

// Files of the workspace folder.
const (
	fundsFile     = "funds.csv"
	selectionFile = "selection.csv"
	formulaFile   = "formula.txt"
	portfolioFile = "portfolio.jsonl"
)

// workspace is the folder holding the imported data, the current selection
// and the portfolio.
type workspace struct {
	dir string
}

func (w workspace) path(name string) string { return filepath.Join(w.dir, name) }

// openWorkspace returns the configured workspace.
func openWorkspace() (workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return workspace{}, err
	}
	return workspace{dir: cfg.DataDir}, nil
}

func (w workspace) decodeDataset(name string) (*fundscreen.Dataset, error) {
	f, err := os.Open(w.path(name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := fundscreen.DecodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %q: %w", w.path(name), err)
	}
	return d, nil
}

func (w workspace) encodeDataset(name string, d *fundscreen.Dataset) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create workspace %q: %w", w.dir, err)
	}
	f, err := os.Create(w.path(name))
	if err != nil {
		return err
	}
	if err := fundscreen.EncodeCSV(f, d); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %q: %w", w.path(name), err)
	}
	return f.Close()
}

// Funds returns the imported fund data.
func (w workspace) Funds() (*fundscreen.Dataset, error) {
	d, err := w.decodeDataset(fundsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no fund data in %q, run 'fsc import' first", w.dir)
	}
	return d, err
}

// SetFunds replaces the imported fund data, and clears the selection made
// on the previous data.
func (w workspace) SetFunds(d *fundscreen.Dataset) error {
	if err := w.encodeDataset(fundsFile, d); err != nil {
		return err
	}
	return w.ClearSelection()
}

// Selection returns the funds kept by the last formula and the formula, or
// all the funds and "" when there is none.
func (w workspace) Selection() (*fundscreen.Dataset, string, error) {
	d, err := w.decodeDataset(selectionFile)
	if errors.Is(err, fs.ErrNotExist) {
		d, err := w.Funds()
		return d, "", err
	}
	if err != nil {
		return nil, "", err
	}
	expr, err := os.ReadFile(w.path(formulaFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", err
	}
	return d, strings.TrimSpace(string(expr)), nil
}

// SetSelection records the funds kept by a formula.
func (w workspace) SetSelection(d *fundscreen.Dataset, expr string) error {
	if err := w.encodeDataset(selectionFile, d); err != nil {
		return err
	}
	return os.WriteFile(w.path(formulaFile), []byte(expr+"\n"), 0o644)
}

// ClearSelection forgets the selection.
func (w workspace) ClearSelection() error {
	for _, name := range []string{selectionFile, formulaFile} {
		if err := os.Remove(w.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Portfolio returns the recommended portfolio, empty when there is none yet.
func (w workspace) Portfolio() (*fundscreen.Portfolio, error) {
	f, err := os.Open(w.path(portfolioFile))
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, portfolio does not exist, starting an empty portfolio instead")
		return fundscreen.NewPortfolio(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := fundscreen.DecodePortfolio(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode portfolio %q: %w", w.path(portfolioFile), err)
	}
	return p, nil
}

// SetPortfolio writes the recommended portfolio.
func (w workspace) SetPortfolio(p *fundscreen.Portfolio) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create workspace %q: %w", w.dir, err)
	}
	f, err := os.Create(w.path(portfolioFile))
	if err != nil {
		return err
	}
	if err := fundscreen.EncodePortfolio(f, p); err != nil {
		f.Close()
		return fmt.Errorf("cannot write portfolio %q: %w", w.path(portfolioFile), err)
	}
	return f.Close()
}
