package calcx

import (
	"math"
	"strconv"
	"strings"
)

// Operator is a pending binary operation.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpPow Operator = "^"
)

// Valid reports whether op is one of the five keypad operators.
func (op Operator) Valid() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow:
		return true
	}
	return false
}

// UnaryOp is an operation applied to the displayed value in place.
type UnaryOp string

const (
	OpSquare     UnaryOp = "square"
	OpSqrt       UnaryOp = "sqrt"
	OpReciprocal UnaryOp = "reciprocal"
)

func (op UnaryOp) Valid() bool {
	switch op {
	case OpSquare, OpSqrt, OpReciprocal:
		return true
	}
	return false
}

// Combine applies op to a and b. Division by zero yields NaN; callers check
// finiteness before committing the result. Unknown operators return b.
func Combine(a, b float64, op Operator) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		if b == 0 {
			return math.NaN()
		}
		return a / b
	case OpPow:
		return math.Pow(a, b)
	default:
		return b
	}
}

// Evaluate is Combine with the result classified: a DomainError for division
// by zero, an OverflowError for any other non-finite result.
func Evaluate(a, b float64, op Operator) (float64, error) {
	r := Combine(a, b, op)
	if op == OpDiv && b == 0 {
		return r, &DomainError{Op: string(op), Operand: b, Kind: ErrDivisionByZero}
	}
	if !isFinite(r) {
		return r, &OverflowError{Op: FormatNumber(a) + " " + string(op) + " " + FormatNumber(b), Result: r}
	}
	return r, nil
}

// ApplyUnary computes op on x.
func ApplyUnary(op UnaryOp, x float64) (float64, error) {
	var r float64
	switch op {
	case OpSquare:
		r = x * x
	case OpSqrt:
		if x < 0 {
			return math.NaN(), &DomainError{Op: string(op), Operand: x, Kind: ErrSqrtNegative}
		}
		r = math.Sqrt(x)
	case OpReciprocal:
		if x == 0 {
			return math.NaN(), &DomainError{Op: string(op), Operand: x, Kind: ErrReciprocalZero}
		}
		r = 1 / x
	default:
		return math.NaN(), ErrInvalidInput
	}
	if !isFinite(r) {
		return r, &OverflowError{Op: string(op), Result: r}
	}
	return r, nil
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// FormatNumber renders f the way the display shows it: the shortest decimal
// that round-trips, exponent form below 1e-6 and from 1e21 up, and no
// negative zero.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseNumber reads a display string. A trailing "." is accepted; strings
// that are not numeric at all yield NaN, which every operation then turns
// into an error.
func ParseNumber(s string) float64 {
	s = strings.TrimSuffix(s, ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// ParseFloat returns ±Inf alongside ErrRange; keep it so the
		// finiteness check reports an overflow.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// isNumeric reports whether s is something the display may hold. Typed
// operands outside the float64 range are still numbers.
func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return false
		}
	}
	return strings.Trim(s, "0123456789.-+e") == ""
}
