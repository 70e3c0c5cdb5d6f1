// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes.

Routes use Go 1.22+ method routing on the standard ServeMux. The draft
mutation routes work offline; /submit and /sync/flush touch the homeserver
and degrade to queueing when it is unreachable.
*/
package router
