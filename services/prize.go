package services

// Призовые и бонусы. Чистые функции, ошибок не бывает.

const (
	WinnerBasePrize     int64 = 1_000_000
	LoserBasePenalty    int64 = 500_000
	PerGoalAmount       int64 = 50_000
	PerYellowCardAmount int64 = 20_000
	PerRedCardAmount    int64 = 50_000
	ManOfTheMatchBonus  int64 = 100_000
)

type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

// Prizes - призовые обеих сторон матча со знаком.
type Prizes struct {
	A      int64 `json:"prize_a"`
	B      int64 `json:"prize_b"`
	Winner Side  `json:"-"`
}

func (p Prizes) Loser() Side {
	switch p.Winner {
	case SideA:
		return SideB
	case SideB:
		return SideA
	}
	return SideNone
}

func (p Prizes) For(side Side) int64 {
	switch side {
	case SideA:
		return p.A
	case SideB:
		return p.B
	}
	return 0
}

// CalculatePrizes считает призовые по счёту и карточкам. При ничьей
// призовых нет.
func CalculatePrizes(goalsA, goalsB, yellowA, redA, yellowB, redB int) Prizes {
	switch {
	case goalsA > goalsB:
		return Prizes{
			A:      winnerPrize(goalsB, yellowA, redA),
			B:      loserPrize(goalsA, yellowB, redB),
			Winner: SideA,
		}
	case goalsB > goalsA:
		return Prizes{
			A:      loserPrize(goalsB, yellowA, redA),
			B:      winnerPrize(goalsA, yellowB, redB),
			Winner: SideB,
		}
	default:
		return Prizes{Winner: SideNone}
	}
}

func winnerPrize(conceded, yellow, red int) int64 {
	return WinnerBasePrize -
		int64(conceded)*PerGoalAmount -
		int64(yellow)*PerYellowCardAmount -
		int64(red)*PerRedCardAmount
}

func loserPrize(opponentGoals, yellow, red int) int64 {
	return -(LoserBasePenalty +
		int64(opponentGoals)*PerGoalAmount +
		int64(yellow)*PerYellowCardAmount +
		int64(red)*PerRedCardAmount)
}

// Bonuses - бонус за игрока матча по сторонам. Получает его сторона
// игрока, при SideNone бонуса нет.
type Bonuses struct {
	A int64 `json:"bonus_a"`
	B int64 `json:"bonus_b"`
}

func CalculateBonus(side Side) Bonuses {
	switch side {
	case SideA:
		return Bonuses{A: ManOfTheMatchBonus}
	case SideB:
		return Bonuses{B: ManOfTheMatchBonus}
	}
	return Bonuses{}
}

func (b Bonuses) For(side Side) int64 {
	switch side {
	case SideA:
		return b.A
	case SideB:
		return b.B
	}
	return 0
}
