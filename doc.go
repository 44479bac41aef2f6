// Package exposure turns fund holdings disclosures into risk metrics.
//
// Providers publish holdings as CSV or JSON tables whose columns vary wildly.
// The pipeline reads them in a few stages:
//   - Decoding: a provider payload becomes a RawTable, an ordered set of
//     labelled columns.
//   - Column resolution: labels are mapped to canonical fields (name, weight,
//     ISIN, sector, country...) by substring rules.
//   - Loading: weights are normalized to percentages and each fund is
//     rescaled to sum to 100, giving a FundTable.
//   - Aggregation: several funds are consolidated into a Portfolio, each fund
//     contributing according to a WeightPolicy.
//   - Metrics: top holdings, Herfindahl-Hirschman index, thematic exposure
//     (keyword Themes) and sector or country rollups.
//
// Sources that cannot be used are reported to a Collector and skipped; the
// pipeline only fails when nothing is left.
//
// This package is the foundation of the `holdrisk` command-line tool.
package exposure
