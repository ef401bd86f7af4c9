package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnknownColor = errors.New("unknown colour")
	ErrUnknownValue = errors.New("unknown card value")
)

// Color represents the colour of a card
type Color int

const (
	Red Color = iota
	Yellow
	Green
	Blue
	Black
)

var colorNames = []string{"red", "yellow", "green", "blue", "black"}

// Colors are the four colours a numbered or action card can have,
// and that a player can choose for a wild card.
var Colors = []Color{Red, Yellow, Green, Blue}

func (c Color) String() string {
	if c < Red || c > Black {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

// ParseColor converts a colour name into a Color
func ParseColor(name string) (Color, error) {
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return Black, fmt.Errorf("%w %q", ErrUnknownColor, name)
}

func (c Color) MarshalJSON() ([]byte, error) {
	if c < Red || c > Black {
		return nil, fmt.Errorf("%w %d", ErrUnknownColor, int(c))
	}
	return json.Marshal(colorNames[c])
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseColor(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value is either a number from 0 to 9, an action or a wild.
type Value int

const (
	Zero Value = iota
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Skip
	Reverse
	Draw2
	Wild
	WildDraw4
)

var valueNames = []string{
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"skip", "reverse", "draw2", "wild", "wild_draw4",
}

// IsNumber reports whether v is a plain number card
func (v Value) IsNumber() bool {
	return v >= Zero && v <= Nine
}

// IsAction reports whether v is skip, reverse or draw2
func (v Value) IsAction() bool {
	return v >= Skip && v <= Draw2
}

// IsWild reports whether v is wild or wild_draw4
func (v Value) IsWild() bool {
	return v == Wild || v == WildDraw4
}

func (v Value) String() string {
	if v < Zero || v > WildDraw4 {
		return fmt.Sprintf("Value(%d)", int(v))
	}
	return valueNames[v]
}

// ParseValue converts "0"-"9" or an action/wild name into a Value
func ParseValue(name string) (Value, error) {
	for i, n := range valueNames {
		if n == name {
			return Value(i), nil
		}
	}
	return Zero, fmt.Errorf("%w %q", ErrUnknownValue, name)
}

// MarshalJSON writes numbers as JSON numbers and everything else as a name.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNumber() {
		return []byte(strconv.Itoa(int(v))), nil
	}
	if v < Zero || v > WildDraw4 {
		return nil, fmt.Errorf("%w %d", ErrUnknownValue, int(v))
	}
	return json.Marshal(valueNames[v])
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		parsed, err := ParseValue(name)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if n < int(Zero) || n > int(Nine) {
		return fmt.Errorf("%w %d", ErrUnknownValue, n)
	}
	*v = Value(n)
	return nil
}
