// Package authform implements the password authentication form: the
// per-mode view metadata (log in, sign up, forgot password), field
// validation, and the controller that dispatches a submission to the
// matching account action.
//
// A submission walks Idle → Validating → (Rejected | Dispatching) →
// (Succeeded | Failed). Every terminal outcome fires exactly one hook and is
// also returned as a Result, so callers can render from either.
package authform
