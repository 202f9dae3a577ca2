package services

import "math"

const (
	// Базовая сумма реальных денег, которую должен проигравший
	BaseRealMoneyOwed int64 = 5
	// Сколько виртуальных денег соответствует одной единице реальных
	VirtualPerRealUnit int64 = 100_000
)

// AmountOwed считает долг стороны в реальных деньгах по балансу после
// начисления приза и бонуса.
func AmountOwed(balanceAfter, prize int64, gotBonus bool) int64 {
	var bonus int64
	if gotBonus {
		bonus = ManOfTheMatchBonus
	}
	shortfall := abs64(prize) - (balanceAfter + bonus)
	if shortfall < 0 {
		shortfall = 0
	}
	return BaseRealMoneyOwed + int64(math.Round(float64(shortfall)/float64(VirtualPerRealUnit)))
}

// DebtNetting - результат взаимозачёта нового долга проигравшего с
// текущим долгом победителя.
type DebtNetting struct {
	LoserOwed  int64 `json:"loser_owed"`
	WinnerOwed int64 `json:"winner_owed"`
	Netted     int64 `json:"netted"`
	Remainder  int64 `json:"remainder"`
	WinnerDebt int64 `json:"winner_debt"` // долг победителя после взаимозачёта
}

// NetDebt уменьшает долг победителя на долг проигравшего. Остаток
// записывается в долг проигравшего.
func NetDebt(winnerDebt, loserOwed, winnerOwed int64) DebtNetting {
	netted := min(winnerDebt, loserOwed)
	if netted < 0 {
		netted = 0
	}
	remainder := loserOwed - netted
	return DebtNetting{
		LoserOwed:  loserOwed,
		WinnerOwed: winnerOwed,
		Netted:     netted,
		Remainder:  remainder,
		WinnerDebt: winnerDebt - netted,
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
