// Package chat answers free-text balance questions with simple pattern
// rules over the query façade. It recognizes a handful of intents (what do
// I owe, who owes me, balances, a named group) and replies with plain
// sentences; anything else gets a help message. There is no natural
// language understanding here and none is intended.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/service"
)

// Responder turns recognized chat intents into query façade calls.
type Responder struct {
	query *service.QueryService
}

// NewResponder creates a Responder over the given query façade.
func NewResponder(query *service.QueryService) *Responder {
	return &Responder{query: query}
}

// Answer responds to a free-text question asked by the given user.
// Returns NotFoundError if the user is unknown.
func (r *Responder) Answer(ctx context.Context, question, userID string) (string, error) {
	user, err := r.query.UserBalances(ctx, userID)
	if err != nil {
		return "", err
	}

	q := strings.ToLower(question)

	// A named group takes priority over the generic intents.
	for _, gb := range user.Balances {
		if strings.Contains(q, strings.ToLower(gb.GroupName)) {
			return r.groupAnswer(ctx, gb.GroupID, userID)
		}
	}

	switch {
	case strings.Contains(q, "owes me") || (strings.Contains(q, "who") && strings.Contains(q, "owe")):
		return r.owedToUser(ctx, user)
	case strings.Contains(q, "owe"):
		return r.owedByUser(ctx, user)
	case strings.Contains(q, "balance") || strings.Contains(q, "summary"):
		return balancesAnswer(user), nil
	default:
		return "I can answer questions like \"how much do I owe?\", \"who owes me?\", " +
			"\"what are my balances?\", or ask about a group by name.", nil
	}
}

func (r *Responder) groupAnswer(ctx context.Context, groupID, userID string) (string, error) {
	view, err := r.query.GroupBalances(ctx, groupID)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, b := range view.Balances {
		switch {
		case b.NetBalance > 0:
			parts = append(parts, fmt.Sprintf("%s is owed %s", b.Name, b.NetBalance))
		case b.NetBalance < 0:
			parts = append(parts, fmt.Sprintf("%s owes %s", b.Name, -b.NetBalance))
		default:
			parts = append(parts, fmt.Sprintf("%s is settled up", b.Name))
		}
	}
	answer := fmt.Sprintf("In %s: %s.", view.Name, strings.Join(parts, "; "))

	if len(view.Settlements) > 0 {
		var plan []string
		for _, s := range view.Settlements {
			plan = append(plan, fmt.Sprintf("%s pays %s %s", s.FromUserName, s.ToUserName, s.Amount))
		}
		answer += " To settle up: " + strings.Join(plan, "; ") + "."
	}
	return answer, nil
}

// settlementsFor gathers the user's side of every group's settlement plan.
func (r *Responder) settlementsFor(ctx context.Context, user *models.UserBalances) ([]models.Settlement, error) {
	var all []models.Settlement
	for _, gb := range user.Balances {
		view, err := r.query.GroupBalances(ctx, gb.GroupID)
		if err != nil {
			return nil, err
		}
		for _, s := range view.Settlements {
			if s.FromUserID == user.UserID || s.ToUserID == user.UserID {
				all = append(all, s)
			}
		}
	}
	return all, nil
}

func (r *Responder) owedByUser(ctx context.Context, user *models.UserBalances) (string, error) {
	settlements, err := r.settlementsFor(ctx, user)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, s := range settlements {
		if s.FromUserID == user.UserID {
			parts = append(parts, fmt.Sprintf("you owe %s %s", s.ToUserName, s.Amount))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("You don't owe anyone anything, %s.", user.Name), nil
	}
	return strings.Join(parts, "; ") + ".", nil
}

func (r *Responder) owedToUser(ctx context.Context, user *models.UserBalances) (string, error) {
	settlements, err := r.settlementsFor(ctx, user)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, s := range settlements {
		if s.ToUserID == user.UserID {
			parts = append(parts, fmt.Sprintf("%s owes you %s", s.FromUserName, s.Amount))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Nobody owes you anything right now, %s.", user.Name), nil
	}
	return strings.Join(parts, "; ") + ".", nil
}

func balancesAnswer(user *models.UserBalances) string {
	if len(user.Balances) == 0 {
		return fmt.Sprintf("You're not in any groups yet, %s.", user.Name)
	}
	var parts []string
	for _, gb := range user.Balances {
		switch {
		case gb.NetBalance > 0:
			parts = append(parts, fmt.Sprintf("%s: you are owed %s", gb.GroupName, gb.NetBalance))
		case gb.NetBalance < 0:
			parts = append(parts, fmt.Sprintf("%s: you owe %s", gb.GroupName, -gb.NetBalance))
		default:
			parts = append(parts, fmt.Sprintf("%s: settled up", gb.GroupName))
		}
	}
	return strings.Join(parts, "; ") + "."
}
