// Package models defines the core domain types for the expense ledger.
//
// Users, Groups and Expenses are the stored, append-only ledger state.
// Balances and Settlements are derived views: pure functions of the ledger,
// recomputed on every read and never persisted.
//
// All monetary values are integer cents (money.Cents). Entity relationships
// use ID strings rather than pointers to avoid circular references.
package models
