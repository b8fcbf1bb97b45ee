// Package utils provides common utility functions for the chefcode application.
// It includes tolerant type conversion for loosely-typed payloads (e.g. model
// output where numbers arrive as strings) and the natural-key normalization
// used to deduplicate inventory records.
package utils
