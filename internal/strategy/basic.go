package strategy

// basicSplits reports whether basic strategy splits a pair of cards worth
// value each against up. DAS widens the low pair splits.
func basicSplits(value int, up Upcard, rules Rules) bool {
	das := rules.DoubleAfterSplit
	switch value {
	case 11, 8:
		return true
	case 10, 5:
		return false
	case 9:
		return up != UpSeven && up <= UpNine
	case 7:
		return up.between(UpTwo, UpSeven)
	case 6:
		if das {
			return up.between(UpTwo, UpSix)
		}
		return up.between(UpThree, UpSix)
	case 4:
		return das && up.between(UpFive, UpSix)
	case 2, 3:
		if das {
			return up.between(UpTwo, UpSeven)
		}
		return up.between(UpFour, UpSeven)
	default:
		return false
	}
}

// doubleOr returns Double when doubling is available, otherwise fallback
func doubleOr(canDouble bool, fallback Action) Action {
	if canDouble {
		return Double
	}
	return fallback
}

// basicSoft plays a soft total
func basicSoft(total int, up Upcard, canDouble bool) Action {
	switch {
	case total >= 20:
		return Stand
	case total == 19:
		if up == UpSix {
			return doubleOr(canDouble, Stand)
		}
		return Stand
	case total == 18:
		switch {
		case up.between(UpTwo, UpSix):
			return doubleOr(canDouble, Stand)
		case up.between(UpSeven, UpEight):
			return Stand
		default:
			return Hit
		}
	case total == 17:
		if up.between(UpThree, UpSix) {
			return doubleOr(canDouble, Hit)
		}
		return Hit
	case total >= 13:
		if up.between(UpFour, UpSix) {
			return doubleOr(canDouble, Hit)
		}
		return Hit
	default:
		return Hit
	}
}

// basicHard plays a hard total
func basicHard(total int, up Upcard, canDouble bool) Action {
	switch {
	case total >= 17:
		return Stand
	case total >= 13:
		if up.between(UpTwo, UpSix) {
			return Stand
		}
		return Hit
	case total == 12:
		if up.between(UpFour, UpSix) {
			return Stand
		}
		return Hit
	case total == 11:
		return doubleOr(canDouble, Hit)
	case total == 10:
		if up.between(UpTwo, UpNine) {
			return doubleOr(canDouble, Hit)
		}
		return Hit
	case total == 9:
		if up.between(UpThree, UpSix) {
			return doubleOr(canDouble, Hit)
		}
		return Hit
	default:
		return Hit
	}
}
