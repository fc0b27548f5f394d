package picker

// RNG источник случайности, Intn возвращает число в [0, n)
type RNG interface {
	Intn(n int) int
}

// MaxWeight вес выше считается равным MaxWeight, чтобы сумма не переполнилась
const MaxWeight = 1 << 30

// Weighted выбирает индекс пропорционально весу.
// Неположительный вес считается за 1, чтобы сектор без веса тоже мог выпасть
func Weighted(weights []int, rng RNG) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0
	for _, w := range weights {
		total += normalize(w)
	}
	// len(weights) * MaxWeight переполнит int только на 2^33 весах
	if total <= 0 {
		return 0
	}

	num := rng.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += normalize(w)
		if num < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

func normalize(w int) int {
	if w <= 0 {
		return 1
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}
