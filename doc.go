// Package captax records stock trades and computes the capital-gains tax they
// generate. It is designed to be local-first and auditable: the whole session
// lives in a human-readable JSONL ledger.
//
// The core functionalities include:
//   - Ledger Management: recording buys and sells, identified by an ID, and
//     keeping them in a valid chronological order (see Ledger and Fmt).
//   - Lot Matching: sells consume the earliest open buy lots first (FIFO), each
//     pairing is reported as a Match with its holding period.
//   - Tax Computation: gains are split into short-term (held less than
//     HoldingThreshold days) and long-term, then flat rates are applied to them
//     and to dividend income (see Compute and TaxRates).
//
// This package serves as the foundational logic for the `cgt` command-line
// tool.
package captax
