// Package accounts implements the account and credential lifecycle for a
// user-facing product: signup, login, email activation, and the
// forgot/reset/change password flows.
//
// The package is transport-agnostic. An HTTP (or RPC) layer binds its own
// request shapes, then invokes the command handlers and the Authenticator
// defined here; results come back as plain response structs or rich errors
// from go-errors, and the caller decides how to render them.
//
// Credential material:
//   - Passwords are stored as bcrypt hashes only.
//   - Activation and password-reset tokens are random opaque strings handed to
//     the user exactly once; the database keeps a SHA-256 fingerprint, so a
//     leaked table cannot be replayed as valid tokens.
//   - Sessions are signed HS256 assertions carrying the user id and an expiry,
//     verifiable without a store lookup.
//
// Persistence goes through the Users repository (Bun + go-repository-bun)
// behind the RepositoryManager interface; the schema ships as embedded goose
// migrations (see RunMigrations). Outbound email goes through the Mailer port.
package accounts
