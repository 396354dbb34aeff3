// Package civicmeet ingests public meeting calendars from heterogeneous
// municipal portal backends, normalizes them into one canonical Meeting
// model, optionally enriches records with structured content extracted from
// linked documents, deduplicates, and emits JSON and iCalendar artifacts.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, pdf/, ical/) or
// their process (crawl/, normalize/, parse/).
package civicmeet
