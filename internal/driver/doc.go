// Package driver plays an environment with uniformly random actions.
//
// The loop resets once with the caller's seed, then takes exactly the
// requested number of steps, resetting without a seed whenever an episode
// ends. Observers see every transition and the environment renders after
// each step. The environment is closed exactly once on every exit path.
//
// Cancelling the context is an interrupt, not a failure: the loop stops at
// the top of the next iteration and Run returns nil.
package driver
