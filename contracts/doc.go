// Package contracts defines the shared types exchanged between the sqlbridge
// packages: the Operation unit of work, its metadata, and the result types
// produced by the underlying database handle.
//
// The bridge itself treats operations as opaque; everything it needs to know
// about a submission is carried by OperationInfo. Result and Rows are the
// materialized outcomes handed back through completion handles, safe to use
// from any goroutine once delivered.
package contracts
