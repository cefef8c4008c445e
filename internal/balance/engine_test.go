package balance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFairShares(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		participants []string
		want         map[string]string
	}{
		{
			name:         "even split",
			total:        "100.00",
			participants: []string{"alice", "bob"},
			want:         map[string]string{"alice": "50.00", "bob": "50.00"},
		},
		{
			name:         "remainder cents go to first usernames",
			total:        "100.00",
			participants: []string{"carol", "alice", "bob"},
			want:         map[string]string{"alice": "33.34", "bob": "33.33", "carol": "33.33"},
		},
		{
			name:         "two leftover cents",
			total:        "0.05",
			participants: []string{"bob", "alice", "carol"},
			want:         map[string]string{"alice": "0.02", "bob": "0.02", "carol": "0.01"},
		},
		{
			name:         "zero total",
			total:        "0.00",
			participants: []string{"alice", "bob"},
			want:         map[string]string{"alice": "0.00", "bob": "0.00"},
		},
		{
			name:         "single participant",
			total:        "42.37",
			participants: []string{"alice"},
			want:         map[string]string{"alice": "42.37"},
		},
		{
			name:         "no participants no expenses",
			total:        "0.00",
			participants: nil,
			want:         map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := FairShares(d(tt.total), tt.participants)
			require.NoError(t, err)
			require.Len(t, shares, len(tt.want))

			sum := decimal.Zero
			for username, want := range tt.want {
				require.True(t, shares[username].Equal(d(want)),
					"share for %s: got %s, want %s", username, shares[username], want)
				sum = sum.Add(shares[username])
			}
			require.True(t, sum.Equal(d(tt.total)), "shares must sum to the total exactly")
		})
	}
}

func TestFairSharesNoParticipants(t *testing.T) {
	_, err := FairShares(d("10.00"), nil)
	require.ErrorIs(t, err, ErrNoParticipants)
}

func TestFairSharesFractionalCents(t *testing.T) {
	_, err := FairShares(d("10.005"), []string{"alice"})
	require.ErrorIs(t, err, ErrFractionalCents)
}

func TestGroupBalancesSettledGroup(t *testing.T) {
	// alice fronted 100.00 for both; bob's confirmed 50.00 transfer settles it.
	participants := []string{"alice", "bob"}
	expenses := []ExpenseRecord{
		{Payer: "alice", Amount: d("100.00")},
	}
	payments := []PaymentRecord{
		{Payer: "bob", Receiver: "alice", Amount: d("50.00"), Confirmed: true},
	}

	summaries, err := GroupBalances(participants, expenses, payments)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	alice, bob := summaries[0], summaries[1]
	require.Equal(t, "alice", alice.Username)
	require.Equal(t, "bob", bob.Username)

	require.True(t, alice.Paid.Equal(d("100.00")))
	require.True(t, alice.Share.Equal(d("50.00")))
	require.True(t, alice.PaymentsReceived.Equal(d("50.00")))
	require.True(t, alice.Net.IsZero(), "alice net = %s", alice.Net)

	require.True(t, bob.PaymentsMade.Equal(d("50.00")))
	require.True(t, bob.Net.IsZero(), "bob net = %s", bob.Net)
}

func TestGroupBalancesPendingPaymentIgnored(t *testing.T) {
	participants := []string{"alice", "bob"}
	expenses := []ExpenseRecord{
		{Payer: "alice", Amount: d("100.00")},
	}
	payments := []PaymentRecord{
		{Payer: "bob", Receiver: "alice", Amount: d("50.00"), Confirmed: false},
	}

	summaries, err := GroupBalances(participants, expenses, payments)
	require.NoError(t, err)

	require.True(t, summaries[0].Net.Equal(d("50.00")), "pending payments must not move balances")
	require.True(t, summaries[1].Net.Equal(d("-50.00")))
	require.True(t, summaries[0].PaymentsReceived.IsZero())
	require.True(t, summaries[1].PaymentsMade.IsZero())
}

func TestGroupBalancesNetsSumToZero(t *testing.T) {
	participants := []string{"dave", "alice", "carol", "bob"}
	expenses := []ExpenseRecord{
		{Payer: "alice", Amount: d("73.21")},
		{Payer: "bob", Amount: d("19.99")},
		{Payer: "alice", Amount: d("0.01")},
	}
	payments := []PaymentRecord{
		{Payer: "carol", Receiver: "alice", Amount: d("23.30"), Confirmed: true},
		{Payer: "dave", Receiver: "bob", Amount: d("10.00"), Confirmed: true},
		{Payer: "dave", Receiver: "alice", Amount: d("13.30"), Confirmed: false},
	}

	summaries, err := GroupBalances(participants, expenses, payments)
	require.NoError(t, err)
	require.Len(t, summaries, 4)

	sum := decimal.Zero
	for _, s := range summaries {
		sum = sum.Add(s.Net)
	}
	require.True(t, sum.IsZero(), "nets must sum to zero, got %s", sum)
}

func TestGroupBalancesNonParticipantPayerShare(t *testing.T) {
	// An expense payer who has since left the group still counts toward the
	// total, but only current participants carry shares.
	participants := []string{"bob"}
	expenses := []ExpenseRecord{
		{Payer: "alice", Amount: d("30.00")},
	}

	summaries, err := GroupBalances(participants, expenses, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.True(t, summaries[0].Share.Equal(d("30.00")))
	require.True(t, summaries[0].Net.Equal(d("-30.00")))
}

func TestTotalExpenses(t *testing.T) {
	expenses := []ExpenseRecord{
		{Payer: "alice", Amount: d("10.50")},
		{Payer: "bob", Amount: d("0.49")},
		{Payer: "alice", Amount: d("100.00")},
	}
	require.True(t, TotalExpenses(expenses).Equal(d("110.99")))
	require.True(t, TotalExpenses(nil).IsZero())
}

func TestTotalPaidByUser(t *testing.T) {
	expenses := []ExpenseRecord{
		{Payer: "alice", Amount: d("10.00")},
		{Payer: "bob", Amount: d("5.00")},
		{Payer: "alice", Amount: d("2.50")},
	}
	require.True(t, TotalPaidByUser(expenses, "alice").Equal(d("12.50")))
	require.True(t, TotalPaidByUser(expenses, "carol").IsZero())
}
