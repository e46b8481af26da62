// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Ownership is part of the contract: methods taking a userID only see rows
// belonging to that user and report ErrNotFound for anything else.
package store
