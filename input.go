package calcx

import "fmt"

// InputKind identifies the keypad action an Input carries.
type InputKind int

const (
	KindDigit InputKind = iota + 1
	KindDecimal
	KindBinary
	KindUnary
	KindToggleSign
	KindEquals
	KindClear
)

var kindNames = map[InputKind]string{
	KindDigit:      "digit",
	KindDecimal:    "decimal",
	KindBinary:     "binary",
	KindUnary:      "unary",
	KindToggleSign: "toggle",
	KindEquals:     "equals",
	KindClear:      "clear",
}

func (k InputKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Input is one discrete keypad event. Pointer and keyboard adapters both
// produce Inputs and hand them to Engine.Apply.
type Input struct {
	Kind     InputKind
	Digit    byte // '0'..'9' for KindDigit
	Operator Operator
	Unary    UnaryOp
}

func Digit(d int) Input {
	if d < 0 || d > 9 {
		// Out of range digits survive construction so Validate can report them.
		return Input{Kind: KindDigit, Digit: 0xff}
	}
	return Input{Kind: KindDigit, Digit: byte('0' + d)}
}

func DecimalPoint() Input              { return Input{Kind: KindDecimal} }
func BinaryOperator(op Operator) Input { return Input{Kind: KindBinary, Operator: op} }
func UnaryOperator(op UnaryOp) Input   { return Input{Kind: KindUnary, Unary: op} }
func ToggleSign() Input                { return Input{Kind: KindToggleSign} }
func Equals() Input                    { return Input{Kind: KindEquals} }
func Clear() Input                     { return Input{Kind: KindClear} }

// Validate reports ErrInvalidInput for inputs the keypad cannot produce.
func (in Input) Validate() error {
	switch in.Kind {
	case KindDigit:
		if in.Digit < '0' || in.Digit > '9' {
			return fmt.Errorf("%w: digit out of range", ErrInvalidInput)
		}
	case KindBinary:
		if !in.Operator.Valid() {
			return fmt.Errorf("%w: binary operator %q", ErrInvalidInput, in.Operator)
		}
	case KindUnary:
		if !in.Unary.Valid() {
			return fmt.Errorf("%w: unary operator %q", ErrInvalidInput, in.Unary)
		}
	case KindDecimal, KindToggleSign, KindEquals, KindClear:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidInput, in.Kind)
	}
	return nil
}

func (in Input) String() string {
	switch in.Kind {
	case KindDigit:
		return "digit(" + string(in.Digit) + ")"
	case KindBinary:
		return string(in.Operator)
	case KindUnary:
		return string(in.Unary)
	case KindDecimal:
		return "."
	case KindToggleSign:
		return "±"
	case KindEquals:
		return "="
	case KindClear:
		return "C"
	}
	return in.Kind.String()
}
