package agent

import (
	"google.golang.org/genai"
)

// instruction is a system instruction.
func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			The user is a financial analyst screening managed funds with formulas. They describe in
			plain words which funds they are looking for, and expect a formula they can run with
			"fsc filter", or an explanation of why a formula is refused.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			Never give a formula that the Screener has not checked. Answer in markdown, put formulas
			in fenced code blocks.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search, for questions
// about funds, managers and categories.
func NewResearcher(model string) *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert fund researcher,
		well aware of managed funds, Morningstar categories, fund managers and investment platforms.
		Ask the Researcher whenever you need recent or grounding information about a fund or a category.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert in managed funds. You can search and find about anything related to
			funds, fund managers, Morningstar ratings and categories, APIR codes. You leverage Google
			Search to ground your assertions in a solid truth.
			`),
		},
	}
}

// NewScreener returns the expert writing and checking formulas on the
// workspace.
func NewScreener(model string, ws *Workspace) *Expert {
	lib := ws.Functions()
	return &Expert{
		Name: "Screener",
		Description: `This is the Screener. It knows the fund data columns, the aliases and the formula language.
		It writes formulas from a plain description, checks them against the data, and tells how many funds
		they keep. Ask it for any formula, and to explain a refused formula.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You write screening formulas for the user's fund data.
			Use the Tools to list the columns and aliases, to check a formula and to try it on the data.
			Always check a formula before giving it. When a formula is refused, explain the error and fix it.
			Prefer aliases to long column names. Read the formula documentation topic when in doubt.
			`),
		},
		Library: NewLibrary(lib),
	}
}
