package strategy

import (
	"fmt"
	"sort"
)

// Category says which action a deviation turns on
type Category int

const (
	CategorySurrender Category = iota
	CategorySplit
	CategoryStand
	CategoryDouble
	CategoryInsurance
)

var categoryNames = [...]string{"surrender", "split", "stand", "double", "insurance"}

func (c Category) String() string {
	return categoryNames[c]
}

// Action returns the playing action a category recommends. Insurance is a
// side bet and maps to no action.
func (c Category) Action() (Action, bool) {
	switch c {
	case CategorySurrender:
		return Surrender, true
	case CategorySplit:
		return Split, true
	case CategoryStand:
		return Stand, true
	case CategoryDouble:
		return Double, true
	default:
		return 0, false
	}
}

// ShapeKind distinguishes how a player hand is matched
type ShapeKind int

const (
	// AnyHand matches regardless of the player's cards (insurance)
	AnyHand ShapeKind = iota
	// HardTotal matches a hard total
	HardTotal
	// PairOf matches a two-card pair of the given card value
	PairOf
)

// Shape is the player-hand part of a deviation key
type Shape struct {
	Kind  ShapeKind
	Value int
}

// Hard returns the shape of a hard total
func Hard(total int) Shape {
	return Shape{Kind: HardTotal, Value: total}
}

// Pair returns the shape of a pair of cards worth value each
func Pair(value int) Shape {
	return Shape{Kind: PairOf, Value: value}
}

func (s Shape) String() string {
	switch s.Kind {
	case HardTotal:
		return fmt.Sprintf("%d", s.Value)
	case PairOf:
		return fmt.Sprintf("%d-%d", s.Value, s.Value)
	default:
		return "any"
	}
}

// Key identifies one deviation
type Key struct {
	Category Category
	Shape    Shape
	Upcard   Upcard
}

// Deviation is a count-dependent override of basic strategy: when the true
// count is at or above Threshold, take the Category's action.
type Deviation struct {
	Key
	Threshold float64
	Set       string
}

// Applies reports whether trueCount meets the threshold
func (d Deviation) Applies(trueCount float64) bool {
	return trueCount >= d.Threshold
}

func (d Deviation) String() string {
	if d.Category == CategoryInsurance {
		return fmt.Sprintf("%s: insurance at TC %+g", d.Set, d.Threshold)
	}
	return fmt.Sprintf("%s: %s vs %s, %s at TC %+g", d.Set, d.Shape, d.Upcard, d.Category, d.Threshold)
}

const (
	setIllustrious18 = "Illustrious 18"
	setFab4          = "Fab 4"
)

func fab4(total int, up Upcard, threshold float64) Deviation {
	return Deviation{Key: Key{CategorySurrender, Hard(total), up}, Threshold: threshold, Set: setFab4}
}

func i18(c Category, shape Shape, up Upcard, threshold float64) Deviation {
	return Deviation{Key: Key{c, shape, up}, Threshold: threshold, Set: setIllustrious18}
}

var deviationList = []Deviation{
	i18(CategoryInsurance, Shape{}, UpAce, 3),

	fab4(17, UpAce, 2),
	fab4(16, UpNine, 5),
	fab4(16, UpTen, 0),
	fab4(16, UpAce, 1),
	fab4(15, UpNine, 3),
	fab4(15, UpTen, 0),
	fab4(15, UpAce, 1),
	fab4(14, UpTen, 3),

	i18(CategorySplit, Pair(10), UpFive, 5),
	i18(CategorySplit, Pair(10), UpSix, 4),

	i18(CategoryStand, Hard(16), UpTen, 0),
	i18(CategoryStand, Hard(15), UpTen, 4),
	i18(CategoryStand, Hard(13), UpTwo, -1),
	i18(CategoryStand, Hard(12), UpTwo, 3),
	i18(CategoryStand, Hard(12), UpThree, 2),
	i18(CategoryStand, Hard(12), UpFour, 0),
	i18(CategoryStand, Hard(12), UpFive, -2),
	i18(CategoryStand, Hard(12), UpSix, -1),

	i18(CategoryDouble, Hard(11), UpAce, 1),
	i18(CategoryDouble, Hard(10), UpTen, 4),
	i18(CategoryDouble, Hard(10), UpAce, 3),
	i18(CategoryDouble, Hard(9), UpTwo, 1),
	i18(CategoryDouble, Hard(9), UpSeven, 3),
	i18(CategoryDouble, Hard(8), UpFive, 4),
	i18(CategoryDouble, Hard(8), UpSix, 2),
}

var deviationTable = func() map[Key]Deviation {
	table := make(map[Key]Deviation, len(deviationList))
	for _, d := range deviationList {
		if _, dup := table[d.Key]; dup {
			panic(fmt.Sprintf("duplicate deviation %v", d.Key))
		}
		table[d.Key] = d
	}
	return table
}()

// Lookup returns the deviation stored under k
func Lookup(k Key) (Deviation, bool) {
	d, ok := deviationTable[k]
	return d, ok
}

// Deviations returns every deviation ordered by category, hand and upcard
func Deviations() []Deviation {
	out := make([]Deviation, len(deviationList))
	copy(out, deviationList)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Shape != b.Shape {
			if a.Shape.Kind != b.Shape.Kind {
				return a.Shape.Kind < b.Shape.Kind
			}
			return a.Shape.Value > b.Shape.Value
		}
		return a.Upcard < b.Upcard
	})
	return out
}

// fires returns the deviation for k when it exists and trueCount meets it
func fires(k Key, trueCount float64) (Deviation, bool) {
	d, ok := deviationTable[k]
	if !ok || !d.Applies(trueCount) {
		return Deviation{}, false
	}
	return d, true
}

var insuranceKey = Key{CategoryInsurance, Shape{}, UpAce}

// TakeInsurance reports whether insurance is correct at trueCount
func TakeInsurance(trueCount float64) bool {
	_, ok := fires(insuranceKey, trueCount)
	return ok
}

// InsuranceThreshold returns the true count from which insurance is correct
func InsuranceThreshold() float64 {
	return deviationTable[insuranceKey].Threshold
}
