// Package logging is the structured logger consumed by jwtservice.
//
// [Logger] takes a level, a message and typed [Field] values. [NewNop] drops
// everything and is the default; [NewZap] and [NewLogrus] adapt the two
// common backends.
package logging
