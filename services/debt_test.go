package services

import "testing"

func TestAmountOwed(t *testing.T) {
	tests := map[string]struct {
		balanceAfter int64
		prize        int64
		gotBonus     bool
		want         int64
	}{
		"balance covers the loss":      {balanceAfter: 1_400_000, prize: -600_000, want: 5},
		"balance wiped out":            {balanceAfter: 0, prize: -600_000, want: 11},
		"partially covered":            {balanceAfter: 250_000, prize: -600_000, want: 9}, // 3.5 -> 4
		"rounds down below half":       {balanceAfter: 0, prize: -640_000, want: 11},
		"bonus counts toward coverage": {balanceAfter: 0, prize: -600_000, gotBonus: true, want: 10},
		"winner with big balance":      {balanceAfter: 3_000_000, prize: 1_000_000, want: 5},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := AmountOwed(tc.balanceAfter, tc.prize, tc.gotBonus)
			if got != tc.want {
				t.Errorf("amount owed incorrect, wanted: %d, got: %d", tc.want, got)
			}
		})
	}
}

func TestNetDebt(t *testing.T) {
	tests := map[string]struct {
		winnerDebt, loserOwed int64
		want                  DebtNetting
	}{
		"winner has no debt": {
			winnerDebt: 0, loserOwed: 5,
			want: DebtNetting{LoserOwed: 5, Netted: 0, Remainder: 5, WinnerDebt: 0},
		},
		"debt fully covers": {
			winnerDebt: 12, loserOwed: 5,
			want: DebtNetting{LoserOwed: 5, Netted: 5, Remainder: 0, WinnerDebt: 7},
		},
		"debt partially covers": {
			winnerDebt: 3, loserOwed: 5,
			want: DebtNetting{LoserOwed: 5, Netted: 3, Remainder: 2, WinnerDebt: 0},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := NetDebt(tc.winnerDebt, tc.loserOwed, 5)
			tc.want.WinnerOwed = 5
			if got != tc.want {
				t.Errorf("netting incorrect, wanted: %+v, got: %+v", tc.want, got)
			}
			if got.Netted+got.Remainder != tc.loserOwed {
				t.Errorf("netted + remainder must equal loser owed")
			}
		})
	}
}
