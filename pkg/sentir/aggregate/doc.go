// Package aggregate partitions document results by sentiment category.
//
// An Aggregator is fed one Result per successfully analyzed document, in the
// order documents complete, and can be read at any time through ResultSet and
// Stats, which both return copies. Failed documents never reach it.
package aggregate
