// Package auth implements the credential core of the blog API: claim
// derivation from stored users and roles, JWT issuance and validation, and
// the role gate that protects HTTP endpoints.
//
// Claims:
//   - BuildClaims derives the canonical claim set for an identity: exactly one
//     name claim carrying the email, followed by one role claim per assigned
//     role slug, in attachment order. Duplicate slugs are preserved as is.
//
// Tokens:
//   - TokenService signs claim sets into HS256 JWTs and verifies presented
//     tokens against the same process-wide key. Keys and token lifetime are
//     read once from an injected Config; the service holds no mutable state
//     and is safe for concurrent use.
//
// Authorization:
//   - Gate evaluates a validated claim set against one or more acceptable role
//     slugs with any-of semantics. Roles are flat; admin does not implicitly
//     satisfy user or author gates. Gate errors distinguish missing tokens,
//     validation failures (401-equivalent) and insufficient roles
//     (403-equivalent) through go-errors codes.
package auth
