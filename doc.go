// Package fundscreen provides the data model of the fund screening tool:
// fund exports, the recommended portfolio and the analysis built on them.
//
// The core types are:
//   - Dataset: an immutable table of fund values read from CSV, XLSX or JSON
//     exports, where every cell is a number, a text or missing.
//   - Portfolio: the analyst's shortlist of funds with their asset class,
//     allocation and comments, persisted as JSONL.
//   - RiskProfile: a strategic asset allocation the portfolio is compared to.
//
// Formulas selecting funds are handled by the formula package, the cmd
// package implements the `fsc` command-line tool on top of both.
package fundscreen
