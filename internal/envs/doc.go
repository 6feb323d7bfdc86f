// Package envs provides built-in demo environments for random play.
//
// Each environment wraps a small dynamical system, integrated with a fixed
// timestep, behind the [gym.Environment] interface:
//
//   - [CartPole]: keep a pole balanced on a cart; two push actions
//   - [Pendulum]: damped pendulum driven by three torque levels
//   - [Spring]: damped spring-mass pushed towards a target position
//
// Environments are built by name through a [Registry], which also applies
// the default [gym.TimeLimit] for each environment.
//
// # Seeding
//
// The seed passed to Reset reseeds the initial-state noise only. Action
// sampling uses a separate generator, seeded from [Options.ActionSeed] or
// the clock.
package envs
