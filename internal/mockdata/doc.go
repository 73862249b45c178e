// Package mockdata synthesizes a B2B marketplace CRM dataset: marketing
// campaigns, registered users and their session-by-session marketing
// interactions.
//
// Generation is reproducible for a fixed Seed and Now. Interactions keep
// referential integrity with campaigns, per-user chronological order and a
// supplier signup funnel in which every completion is preceded by a start
// in the same session.
package mockdata
