// Package examples provides prebuilt resolvers demonstrating how to
// drive a Stabilizer with the settle-go library.
//
// The example resolvers show:
//   - Dictionary: fuzzy word ranking with simulated latency
//   - Scripted: per-input results, failures, and latencies, with
//     invocation recording for assertions
//   - Flaky: deterministic failure injection around another resolver
//
// They back the interactive tools (settle-lab, settle-search), the
// scenario harness, and tests. All of them honor context cancellation
// during simulated latency.
package examples
