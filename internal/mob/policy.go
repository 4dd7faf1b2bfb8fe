package mob

// DiscountFor возвращает скидку (в процентах) для количества участников.
// Пороги — нижние границы, включительно.
func DiscountFor(count int) int {
	switch {
	case count >= 20:
		return 25
	case count >= 10:
		return 15
	case count >= 5:
		return 10
	case count >= 2:
		return 5
	default:
		return 0
	}
}
