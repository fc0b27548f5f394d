package wheel

import "math"

const (
	twoPi = 2 * math.Pi

	// PointerAngle угол указателя (вверх) в неповернутой системе колеса
	PointerAngle = 3 * math.Pi / 2

	// jitterFraction доля ширины сектора, на которую может сместиться остановка
	jitterFraction = 0.2

	// boundaryULPs запас в машинных эпсилонах на ошибку нормализации и сложения углов
	boundaryULPs = 8
)

// SegmentWidth угловая ширина одного сектора
func SegmentWidth(n int) float64 {
	if n <= 0 {
		return 0
	}
	return twoPi / float64(n)
}

// NormalizeAngle приводит угол к [0, 2π)
func NormalizeAngle(a float64) float64 {
	m := math.Mod(a, twoPi)
	if m < 0 {
		m += twoPi
	}
	if m >= twoPi {
		m = 0
	}
	return m
}

// ClampIndex индекс вне диапазона прижимается к ближайшему краю
func ClampIndex(i, n int) int {
	if n <= 0 {
		return -1
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// ClampJitter прижимает jitter к [-0.5, 0.5]
func ClampJitter(j float64) float64 {
	if math.IsNaN(j) {
		return 0
	}
	return math.Max(-0.5, math.Min(0.5, j))
}

// SegmentCenterAngle угол биссектрисы сектора i в неповернутой системе
func SegmentCenterAngle(i, n int) float64 {
	w := SegmentWidth(n)
	return float64(i)*w + w/2
}

// TargetAngle поворот, при котором центр сектора i (со смещением jitter) стоит под указателем.
// Смещение не превышает 10% ширины сектора в каждую сторону
func TargetAngle(i, n int, jitter float64) float64 {
	w := SegmentWidth(n)
	return -math.Pi/2 - SegmentCenterAngle(i, n) + ClampJitter(jitter)*w*jitterFraction
}

// FinalRotation финальный угол анимации: fullSpins полных оборотов плюс добор до target.
// Результат строго больше prev и сравним с target по модулю 2π
func FinalRotation(prev, target float64, fullSpins int) float64 {
	if fullSpins < 0 {
		fullSpins = 0
	}
	delta := NormalizeAngle(target - NormalizeAngle(prev))
	final := prev + twoPi*float64(fullSpins) + delta
	if final <= prev {
		// fullSpins == 0 и target совпал с текущим углом
		final = prev + twoPi
	}
	return final
}

// boundaryEpsilon оценка абсолютной ошибки угла после арифметики поворота.
// Ошибка растет с модулем угла, поэтому допуск масштабируется от него
func boundaryEpsilon(rotation float64) float64 {
	magnitude := math.Max(math.Abs(rotation), twoPi)
	return boundaryULPs * epsilon * magnitude
}

// epsilon машинный эпсилон float64
const epsilon = 1.0 / (1 << 52)

// ResolveSegment индекс сектора под указателем при данном повороте.
// Если точка лежит в пределах ошибки округления от правой границы сектора, она относится к следующему
func ResolveSegment(rotation float64, n int) int {
	if n <= 0 {
		return -1
	}

	w := SegmentWidth(n)
	normalized := NormalizeAngle(rotation)
	relative := NormalizeAngle(PointerAngle - normalized + twoPi)

	idx := ClampIndex(int(math.Floor(relative/w)), n)
	if relative-float64(idx)*w > w-boundaryEpsilon(rotation) {
		idx = (idx + 1) % n
	}
	return idx
}

// SegmentAtAngle индекс сектора, в который попадает экранный угол при данном повороте
func SegmentAtAngle(screenAngle, rotation float64, n int) int {
	if n <= 0 {
		return -1
	}
	local := NormalizeAngle(screenAngle - rotation)
	return ClampIndex(int(math.Floor(local/SegmentWidth(n))), n)
}
