// Package gmail retrieves messages from the Gmail API and flattens
// them into normalized message records.
//
// The Fetcher lists message IDs and hydrates each one concurrently;
// the returned order always matches the list order regardless of
// hydration timing.
package gmail
