// Package access implements the authorization core of Taskward: generic
// right checks against the right registry, per-entity access checks through
// pluggable policies, and task-scoped permission resolution over the task
// hierarchy with selective inheritance.
//
// Every Has* method answers with a plain boolean and never errors on a
// denial; the matching Check* method returns a typed *DeniedError carrying
// enough context to render a localized message. Any missing or ambiguous
// data resolves to deny, never to grant.
package access
