// Package request holds the song request domain: the closed status enum and
// its transition graph, bid amounts in integer minor units, the submission
// boundary, the DJ preference set, the matcher, and the queue ranker.
//
// Everything here is pure. Persistence, locking, and change notification live
// in the queue package, which drives these types through the controller.
//
// Ranking order, applied as a lexicographic comparator:
//
//  1. status bucket (pending, accepted, completed, then paid/rejected)
//  2. bid amount, highest first, only between two pending requests
//  3. preference match first, only between two pending requests
//  4. timestamp, newest first
//
// The sort is stable, so requests that tie on every key keep their input
// order.
package request
