package domain

import "fmt"

// Move is a relative head movement.
type Move int8

const (
	Left  Move = -1
	Stay  Move = 0
	Right Move = +1
)

// ParseMove accepts "-1", "0", "1" and "+1".
func ParseMove(s string) (Move, error) {
	switch s {
	case "-1":
		return Left, nil
	case "0":
		return Stay, nil
	case "1", "+1":
		return Right, nil
	}
	return Stay, fmt.Errorf("invalid move %q", s)
}

// Valid reports whether m is one of Left, Stay or Right.
func (m Move) Valid() bool {
	return m >= Left && m <= Right
}

// String renders Right with an explicit sign.
func (m Move) String() string {
	if m == Right {
		return "+1"
	}
	return fmt.Sprintf("%d", int8(m))
}
