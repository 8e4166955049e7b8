// Package auth is the authentication and authorization core of the
// enrollment service.
//
// It hashes credentials with bcrypt, issues and verifies HS256 access
// tokens whose subject is the user id, and gates protected operations with
// declarative policies: the token is verified, the subject is loaded from
// the identity store, then the policy's role allow-list and approval
// requirement are checked in that order.
//
// Registration, login, the one-time password reset flow and the approval
// state machine are exposed as handlers that take their collaborators
// explicitly, so a single application context can be built at startup and
// shared by every request.
package auth
