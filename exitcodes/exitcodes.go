// Package exitcodes defines the standard exit codes used by conductor.
package exitcodes

// Exit code constants used by conductor
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when every aggregated counter shows zero failed/error tests
// * TestFailure (1): Used when at least one test failed or errored, and for
//   unexpected top-level failures
// * Interrupted (130): Used when the run is aborted by user interruption
const (
	Success     = 0   // All tests pass
	TestFailure = 1   // Test failures or unexpected top-level failure
	Interrupted = 130 // User interruption (SIGINT)
)
