// Package week provides Monday-anchored calendar arithmetic for the planner.
//
// All functions work on local calendar fields (year, month, day) of the
// time.Time they receive, never on the instant. A date is converted to its
// storage form with StorageKey, which reads those fields directly, so a date
// near midnight cannot shift by a day the way a UTC conversion would.
//
// # Weeks
//
// A week starts on Monday and ends on Sunday. MondayOf maps Sunday to the
// Monday six days earlier, not the following one.
//
// # Navigation
//
// Navigator owns the single "current week" anchor. It only ever stores a
// Monday at midnight: Previous and Next step by seven calendar days, Today
// and Jump normalize through MondayOf.
package week
