// Package sanitizer normalizes free-text user input (group names, booking
// notes) before validation and persistence. Strategies are composable
// pipelines so each field type can pick the normalization it needs.
package sanitizer
