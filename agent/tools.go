package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/fundscreen"
	"github.com/etnz/fundscreen/docs"
	"github.com/etnz/fundscreen/formula"
	"github.com/etnz/fundscreen/renderer"
	"google.golang.org/genai"
)

// Workspace gives the assistant read access to the fund data.
type Workspace struct {
	Engine *formula.Engine
	Funds  *fundscreen.Dataset
}

// Functions returns the tools working on ws.
func (ws *Workspace) Functions() []Function {
	return []Function{ws.columns(), ws.checkFormula(), ws.tryFormula(), ws.topic()}
}

func formulaParameter() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"formula": {
				Type:        genai.TypeString,
				Description: "The formula, as the user would type it.",
			},
		},
		Required: []string{"formula"},
	}
}

func (ws *Workspace) columns() *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Columns",
			Description: "Columns lists the columns of the fund data, and the aliases that can be used for them in formulas.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown list of the columns followed by a table of the aliases.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			var b strings.Builder
			fmt.Fprintf(&b, "Columns (%d funds):\n\n", ws.Funds.Len())
			for _, c := range ws.Funds.Columns() {
				fmt.Fprintf(&b, "- `%s`\n", c)
			}
			fmt.Fprintf(&b, "\nAliases:\n\n%s", renderer.AliasesMarkdown(ws.Engine.Aliases(), ws.Funds))
			return b.String(), nil
		},
	}
}

func (ws *Workspace) checkFormula() *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "CheckFormula",
			Description: `CheckFormula validates a formula against the fund data without running it.
			It returns the formula with aliases resolved, or why it is refused and where.`,
			Parameters: formulaParameter(),
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The validated formula and the columns it reads, or the error.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			expr, err := stringArg(args, "formula")
			if err != nil {
				return "", err
			}
			x, used, err := ws.Engine.Check(expr, ws.Funds.Columns())
			if err != nil {
				return "The formula is refused.\n\n" + renderer.ErrorMarkdown(err), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "The formula is valid.\n\nResolved: %s\n", x.Source())
			fmt.Fprintf(&b, "Columns read: %s\n", strings.Join(x.Columns(), ", "))
			if len(used) > 0 {
				fmt.Fprintf(&b, "Aliases used: %s\n", strings.Join(used, ", "))
			}
			return b.String(), nil
		},
	}
}

func (ws *Workspace) tryFormula() *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "TryFormula",
			Description: "TryFormula runs a formula on the fund data and tells how many funds it keeps, without changing the user's selection.",
			Parameters:  formulaParameter(),
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The counts of kept and excluded funds and the first kept funds, or the error.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			expr, err := stringArg(args, "formula")
			if err != nil {
				return "", err
			}
			x, _, err := ws.Engine.Check(expr, ws.Funds.Columns())
			if err != nil {
				return "The formula is refused.\n\n" + renderer.ErrorMarkdown(err), nil
			}
			res, err := formula.Evaluate(x, ws.Funds)
			if err != nil {
				return "", err
			}
			filtered, s, err := formula.Apply(ws.Funds, res)
			if err != nil {
				return "", err
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Kept %d of %d funds: %d excluded by the formula, %d excluded for missing data.\n\n",
				s.Kept, s.Total, s.ExcludedByFormula, s.ExcludedMissing)
			b.WriteString(renderer.DatasetMarkdown(filtered, []string{fundscreen.ColName, fundscreen.ColAPIR}, 10))
			return b.String(), nil
		},
	}
}

// topic returns a documentation topic followed by its example formulas,
// each checked against the selected funds.
func (ws *Workspace) topic() *Func {
	topics, _ := docs.GetAllTopics()
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Topic",
			Description: "Topic returns a documentation topic of the fsc tool, and whether its example formulas apply to the selected funds.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {
						Type:        genai.TypeString,
						Description: "The topic name",
						Enum:        topics,
					},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown documentation.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			name, err := stringArg(args, "topic")
			if err != nil {
				return "", err
			}
			doc, err := docs.GetTopic(name)
			if err != nil {
				return "", err
			}
			examples, err := docs.Examples(name)
			if err != nil || len(examples) == 0 {
				return doc, err
			}

			var b strings.Builder
			b.WriteString(doc)
			b.WriteString("\n## Examples on the selected funds\n\n")
			for _, ex := range examples {
				status := "applicable"
				if ex.Reject {
					status = "always refused"
				} else if _, _, err := ws.Engine.Check(ex.Formula, ws.Funds.Columns()); err != nil {
					status = "not applicable: " + err.Error()
				}
				fmt.Fprintf(&b, "- `` %s ``: %s\n", ex.Formula, status)
			}
			return b.String(), nil
		},
	}
}
