// Package inbox classifies fetched messages into client buckets and
// derives grouped and summarized views.
//
// Classification and aggregation are pure derivations over an
// already-fetched message sequence; only the Service performs I/O.
package inbox
