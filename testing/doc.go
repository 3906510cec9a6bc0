// Package testing provides test doubles and fixtures for code built on the
// networking packages.
//
// # Mocks
//
// The mocks subpackage provides:
//   - NetworkService, a deterministic network.Service with per-path canned
//     responses, simulated latency, forced errors and request recording
//   - MockService and MockTokenProvider, testify-based mocks for
//     interaction-style tests
//
// # Fixtures
//
// The fixtures subpackage provides pre-configured NetworkService values for
// common scenarios (healthy, failing, slow) and an echo-backed HTTP test
// server for end-to-end client tests.
//
//	import (
//		"github.com/gaborage/netbricks/testing/mocks"
//		"github.com/gaborage/netbricks/testing/fixtures"
//	)
package testing
