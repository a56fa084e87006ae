// Package formula filters fund datasets with formulas typed by analysts.
//
// A formula is a condition over the dataset columns, such as
//
//	return > 5 and fee < 1
//	`3 Year Sharpe Ratio` >= 0.5 or abs(beta - 1) < 0.1
//
// Short aliases (return, fee, risk...) stand for the long Morningstar column
// names; any other column is written between backticks.
//
// Formulas never run as code. They go through four steps:
//
//   - Resolve rewrites aliases into quoted columns.
//   - Validate reads the result with an allow-list grammar: numbers, quoted
//     text, columns, comparisons, and/or/not, + - * / and the functions abs,
//     min, max and round. Anything else is rejected before evaluation.
//   - Evaluate computes the condition on each row. A row reading a missing
//     cell, mixing text into arithmetic or dividing by zero is missing: it is
//     excluded and counted apart from the rows the condition rejects.
//   - Apply keeps the rows that pass.
//
// Engine chains the four steps and records where the last formula stopped.
package formula
