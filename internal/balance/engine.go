// Package balance derives net positions from a group's expenses and
// payments. Nothing here is persisted: balances are always computed fresh
// from the ledger so there is no stored figure to drift.
package balance

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoParticipants is returned when expenses exist but nobody is there
	// to share them.
	ErrNoParticipants = errors.New("group has expenses but no participants")
	// ErrFractionalCents is returned when an amount carries sub-cent
	// precision the share calculation cannot distribute.
	ErrFractionalCents = errors.New("amount has sub-cent precision")
)

// ExpenseRecord is the slice of an expense the engine needs.
type ExpenseRecord struct {
	Payer  string
	Amount decimal.Decimal
}

// PaymentRecord is the slice of a payment the engine needs.
type PaymentRecord struct {
	Payer     string
	Receiver  string
	Amount    decimal.Decimal
	Confirmed bool
}

// Summary is one participant's derived position within a group.
type Summary struct {
	Username         string
	Paid             decimal.Decimal // expenses this user paid for the group
	Share            decimal.Decimal // this user's part of the group total
	PaymentsMade     decimal.Decimal // confirmed transfers sent
	PaymentsReceived decimal.Decimal // confirmed transfers received
	Net              decimal.Decimal // Paid - Share + PaymentsReceived - PaymentsMade
}

// TotalExpenses sums all expense amounts.
func TotalExpenses(expenses []ExpenseRecord) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalPaidByUser sums the expense amounts paid by username.
func TotalPaidByUser(expenses []ExpenseRecord, username string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Payer == username {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalPaymentsMade sums the confirmed payments sent by username. Pending
// payments never contribute.
func TotalPaymentsMade(payments []PaymentRecord, username string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Confirmed && p.Payer == username {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// TotalPaymentsReceived sums the confirmed payments received by username.
func TotalPaymentsReceived(payments []PaymentRecord, username string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Confirmed && p.Receiver == username {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// FairShares splits total equally across the participants, in whole cents.
// The division leaves up to n-1 leftover cents; those go one each to the
// first participants in ascending username order, so the shares always sum
// to total exactly. The total must be non-negative with at most two decimal
// places.
func FairShares(total decimal.Decimal, participants []string) (map[string]decimal.Decimal, error) {
	shares := make(map[string]decimal.Decimal, len(participants))
	if len(participants) == 0 {
		if !total.IsZero() {
			return nil, ErrNoParticipants
		}
		return shares, nil
	}

	cents := total.Shift(2)
	if !cents.IsInteger() {
		return nil, ErrFractionalCents
	}

	sorted := slices.Clone(participants)
	slices.Sort(sorted)

	n := int64(len(sorted))
	base := cents.IntPart() / n
	leftover := cents.IntPart() % n

	for i, username := range sorted {
		c := base
		if int64(i) < leftover {
			c++
		}
		shares[username] = decimal.New(c, -2)
	}

	return shares, nil
}

// NetBalance computes username's net position: what they paid for the group,
// minus their fair share, plus confirmed transfers received, minus confirmed
// transfers made. Positive means the group owes them.
func NetBalance(username string, share decimal.Decimal, expenses []ExpenseRecord, payments []PaymentRecord) decimal.Decimal {
	return TotalPaidByUser(expenses, username).
		Sub(share).
		Add(TotalPaymentsReceived(payments, username)).
		Sub(TotalPaymentsMade(payments, username))
}

// GroupBalances computes the full per-participant table for a group. The net
// positions of all participants sum to zero.
func GroupBalances(participants []string, expenses []ExpenseRecord, payments []PaymentRecord) ([]Summary, error) {
	shares, err := FairShares(TotalExpenses(expenses), participants)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(participants)
	slices.Sort(sorted)

	summaries := make([]Summary, len(sorted))
	for i, username := range sorted {
		share := shares[username]
		summaries[i] = Summary{
			Username:         username,
			Paid:             TotalPaidByUser(expenses, username),
			Share:            share,
			PaymentsMade:     TotalPaymentsMade(payments, username),
			PaymentsReceived: TotalPaymentsReceived(payments, username),
			Net:              NetBalance(username, share, expenses, payments),
		}
	}

	return summaries, nil
}
