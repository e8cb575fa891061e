// Package generation owns the simulated emoji generation flow.
//
// A Controller moves through four phases:
//
//	Idle ──SetText──▶ Composing ──Submit──▶ Generating ──Tick(delay)──▶ Complete
//	  ▲                                                                    │
//	  └──────────────────────────────── Reset ─────────────────────────────┘
//
// Submitting issues a Ticket that carries the deadline and a context. Reset cancels
// the ticket, so a timer that was started for an earlier generation can never
// complete a later one.
//
// The presentation layer reads Snapshots and maps them to visibility flags with
// Project; it never touches controller fields.
package generation
