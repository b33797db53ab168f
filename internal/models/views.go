package models

import "github.com/mmynk/splitledger/pkg/money"

// GroupSummary is the read view for one group: its member users in
// insertion order and the running total of recorded expenses.
type GroupSummary struct {
	GroupID       string
	Name          string
	Users         []*User
	TotalExpenses money.Cents
}

// MemberBalance is one user's net position within a group.
// Positive means the group owes the user, negative means the user owes.
type MemberBalance struct {
	UserID     string
	Name       string
	NetBalance money.Cents
}

// Settlement is a single suggested transfer: From pays To.
type Settlement struct {
	FromUserID   string
	FromUserName string
	ToUserID     string
	ToUserName   string
	Amount       money.Cents
}

// GroupBalances is the read view for one group: member balances in
// membership insertion order plus a transfer plan that zeroes them.
type GroupBalances struct {
	GroupID     string
	Name        string
	Balances    []MemberBalance
	Settlements []Settlement
}

// GroupBalance is one user's net position in one group, used by the
// per-user global view. Balances are never netted across groups.
type GroupBalance struct {
	GroupID    string
	GroupName  string
	NetBalance money.Cents
}

// UserBalances is the read view for one user across all their groups.
type UserBalances struct {
	UserID   string
	Name     string
	Balances []GroupBalance
}
