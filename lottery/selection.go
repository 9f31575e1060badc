package lottery

import (
	"crypto/rand"
	"math/big"
	"sort"
)

const (
	MinNumber     = 0
	MaxNumber     = 999
	MinMultiplier = 1
	MaxMultiplier = 1000
	MinBetAmount  = 1
	MaxBetAmount  = 1000000
	MaxSeed       = 999
	MaxQuickPick  = 1000
)

// Selection is the working bet slip: chosen numbers with their multipliers
// and the seed to reveal later. It is not safe for concurrent use.
type Selection struct {
	multipliers map[uint16]uint32
	seed        uint16
	hasSeed     bool
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{multipliers: make(map[uint16]uint32)}
}

func checkNumber(n int) (uint16, error) {
	if n < MinNumber || n > MaxNumber {
		return 0, invalid("number", ErrNumberOutOfRange)
	}

	return uint16(n), nil
}

// SelectNumber adds n with multiplier 1, or raises its multiplier by one
// when it is already selected
func (s *Selection) SelectNumber(n int) error {
	num, err := checkNumber(n)
	if err != nil {
		return err
	}

	m, ok := s.multipliers[num]
	if !ok {
		s.multipliers[num] = 1
		return nil
	}

	if m+1 > MaxMultiplier {
		return invalid("multiplier", ErrMultiplierOutOfRange)
	}
	s.multipliers[num] = m + 1

	return nil
}

// SetMultiplier sets the multiplier of a selected number
func (s *Selection) SetMultiplier(n, m int) error {
	num, err := checkNumber(n)
	if err != nil {
		return err
	}

	if m < MinMultiplier || m > MaxMultiplier {
		return invalid("multiplier", ErrMultiplierOutOfRange)
	}

	if _, ok := s.multipliers[num]; !ok {
		return invalid("number", ErrNotSelected)
	}
	s.multipliers[num] = uint32(m)

	return nil
}

// Deselect removes n and reports whether it was selected
func (s *Selection) Deselect(n int) bool {
	if n < MinNumber || n > MaxNumber {
		return false
	}

	_, ok := s.multipliers[uint16(n)]
	delete(s.multipliers, uint16(n))

	return ok
}

// Clear empties the selection and forgets the seed
func (s *Selection) Clear() {
	s.multipliers = make(map[uint16]uint32)
	s.seed = 0
	s.hasSeed = false
}

// QuickPick selects count random numbers; repeats raise multipliers.
// Numbers whose multiplier is already at the maximum are skipped.
func (s *Selection) QuickPick(count int) error {
	if count < 1 || count > MaxQuickPick {
		return invalid("count", ErrInvalidCount)
	}

	for i := 0; i < count; i++ {
		n, err := randomBelow(MaxNumber + 1)
		if err != nil {
			return err
		}
		if s.multipliers[uint16(n)] >= MaxMultiplier {
			continue
		}
		_ = s.SelectNumber(n)
	}

	return nil
}

// Numbers returns the selected numbers in ascending order
func (s *Selection) Numbers() []uint16 {
	numbers := make([]uint16, 0, len(s.multipliers))
	for n := range s.multipliers {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	return numbers
}

// Multipliers returns a copy of the per-number multipliers
func (s *Selection) Multipliers() map[uint16]uint32 {
	res := make(map[uint16]uint32, len(s.multipliers))
	for n, m := range s.multipliers {
		res[n] = m
	}

	return res
}

// Multiplier returns the multiplier of n, 0 when unselected
func (s *Selection) Multiplier(n uint16) uint32 {
	return s.multipliers[n]
}

func (s *Selection) Len() int {
	return len(s.multipliers)
}

// Total is the bet amount: the sum of all multipliers
func (s *Selection) Total() uint64 {
	total := uint64(0)
	for _, m := range s.multipliers {
		total += uint64(m)
	}

	return total
}

// SetSeed sets the seed that will be revealed after the commitment phase
func (s *Selection) SetSeed(seed int) error {
	if seed < 0 || seed > MaxSeed {
		return invalid("seed", ErrInvalidSeed)
	}

	s.seed = uint16(seed)
	s.hasSeed = true

	return nil
}

func (s *Selection) Seed() (uint16, bool) {
	return s.seed, s.hasSeed
}

// GenerateSeed picks and stores a random seed in [0,999]
func (s *Selection) GenerateSeed() (uint16, error) {
	seed, err := GenerateSeed()
	if err != nil {
		return 0, err
	}

	s.seed = seed
	s.hasSeed = true

	return seed, nil
}

// Expand lists every number once per unit of its multiplier, ascending
func Expand(multipliers map[uint16]uint32) []uint16 {
	numbers := make([]uint16, 0, len(multipliers))
	for n := range multipliers {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	res := make([]uint16, 0)
	for _, n := range numbers {
		for i := uint32(0); i < multipliers[n]; i++ {
			res = append(res, n)
		}
	}

	return res
}

// GenerateSeed draws a seed in [0,999] from crypto/rand
func GenerateSeed() (uint16, error) {
	n, err := randomBelow(MaxSeed + 1)
	if err != nil {
		return 0, err
	}

	return uint16(n), nil
}

func randomBelow(max int64) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, err
	}

	return int(n.Int64()), nil
}
