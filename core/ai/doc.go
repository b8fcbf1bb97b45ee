// Package ai provides an abstraction layer for generative model calls.
//
// It wraps the Google GenAI client behind a small interface so features can
// be unit tested with mocks (see core/ai/mocks) and degrade explicitly when
// no API key is configured.
//
// # Client Interface
//
//   - GenerateText: text-only prompt, returns the raw model output.
//   - GenerateFromFile: prompt plus an attached document (invoice scans).
//   - Available: reports whether a provider is configured.
//
// All calls request JSON output at temperature zero; ExtractJSON recovers
// the JSON body when the model wraps it in markdown fences anyway.
package ai
