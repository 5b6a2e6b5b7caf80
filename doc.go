// Package auth implements a minimal email/password authentication service:
// user registration with email verification and a login flow that issues a
// signed bearer token.
//
// Account lifecycle:
//   - Accounts are created unverified, holding a single-use verification
//     token. The verification email is dispatched before the record is
//     persisted so a delivery failure never strands an unverifiable account.
//   - VerifyEmail consumes the token exactly once: it flips the account to
//     verified and clears the token atomically. A reused token is
//     indistinguishable from an unknown one.
//   - Login is gated on the verified state. Successful logins mint an HS256
//     JWT carrying the account's profile claims with a fixed one hour expiry.
//
// Persistence goes through a bun-backed Users repository; registration and
// verification each run inside a single RunInTx boundary. The HTTP surface
// is a Fiber JSON controller, see RegisterAuthRoutes.
package auth
