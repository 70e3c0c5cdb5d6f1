// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity models the narrow interface over the identity/session
service.

The rest of the system only ever needs two things from it: a stable voter id
(known whether or not the voter is currently signed in) and a write
capability for the voter's remote namespace (present only while a session is
active). Provider exposes exactly that split:

	voter, err := provider.VoterID() // ErrNoVoter if unconfigured
	sess, err := provider.Session()  // ErrNoSession while signed out

ErrNoSession is deliberately retryable: a queued ballot delivery that fails
on it stays in the outbox and is re-attempted once the session returns.
*/
package identity
