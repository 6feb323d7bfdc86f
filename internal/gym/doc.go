// Package gym defines the environment contract driven by randplay.
//
// The package defines the types shared by the driver and the built-in
// environments:
//
//   - [Observation]: vector returned by Reset and Step
//   - [Action]: discrete action index
//   - [Transition]: the outcome of a single Step
//   - [Environment]: reset/step/sample/render/close capability set
//   - [Discrete]: uniform discrete action space
//   - [TimeLimit]: wrapper that truncates long episodes
//
// # Example
//
//	env, _ := envs.NewRegistry().Make("cartpole", envs.Options{})
//	obs, info, err := env.Reset(&seed)
//	a, _ := env.SampleAction()
//	tr, err := env.Step(a)
//
// # Thread Safety
//
// Environments are NOT thread-safe. A single caller owns an environment
// from the first Reset until Close.
package gym
