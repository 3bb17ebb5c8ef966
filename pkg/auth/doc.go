// Package auth implements the credential verification and bearer token
// pipeline for the myFlix API.
//
// The flow is: a login request is checked by CredentialVerifier against the
// stored bcrypt hash, a successful login gets a signed HS256 JWT from
// TokenService, and every protected request passes through the Authenticate
// middleware which validates the token and resolves its subject back to a
// live Identity via the CredentialStore. Ownership-sensitive routes add the
// RequireSelf middleware on top.
//
// Tokens are stateless: there is no revocation list and no server-side
// session, so a token stays valid until its expiry regardless of later
// account changes. The signing secret is injected at startup and treated as
// immutable for the process lifetime.
package auth
