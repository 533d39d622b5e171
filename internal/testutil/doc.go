// Package testutil provides fakes shared by the scenario, harness and CLI
// tests: a recording publisher and deterministic run ID generators.
package testutil
