// Package keymap translates key names into calculator inputs. The same table
// serves the terminal UI, scripted key sequences and the tool adapter, so a
// key press and a button press always reach Engine.Apply as the same Input.
package keymap

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/comalice/calcx"
)

var (
	ErrUnknownKey    = errors.New("unknown key")
	ErrUnknownAction = errors.New("unknown action")
)

// Named keys delivered by keyboard front-ends.
const (
	KeyEnter  = "Enter"
	KeyEscape = "Escape"
)

var actions = map[string]calcx.Input{
	"decimal":    calcx.DecimalPoint(),
	"add":        calcx.BinaryOperator(calcx.OpAdd),
	"subtract":   calcx.BinaryOperator(calcx.OpSub),
	"multiply":   calcx.BinaryOperator(calcx.OpMul),
	"divide":     calcx.BinaryOperator(calcx.OpDiv),
	"power":      calcx.BinaryOperator(calcx.OpPow),
	"square":     calcx.UnaryOperator(calcx.OpSquare),
	"sqrt":       calcx.UnaryOperator(calcx.OpSqrt),
	"reciprocal": calcx.UnaryOperator(calcx.OpReciprocal),
	"negate":     calcx.ToggleSign(),
	"equals":     calcx.Equals(),
	"clear":      calcx.Clear(),
}

func init() {
	for d := 0; d <= 9; d++ {
		actions[fmt.Sprint(d)] = calcx.Digit(d)
	}
}

// ParseAction resolves an action name ("7", "add", "sqrt", "clear", ...).
func ParseAction(name string) (calcx.Input, error) {
	in, ok := actions[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return calcx.Input{}, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return in, nil
}

// Actions lists the action names ParseAction accepts.
func Actions() []string {
	names := make([]string, 0, len(actions))
	for n := range actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Keymap maps key names to inputs.
type Keymap struct {
	bindings map[string]calcx.Input
}

// Default returns the widget's keyboard bindings.
func Default() *Keymap {
	km := &Keymap{bindings: make(map[string]calcx.Input)}
	for d := 0; d <= 9; d++ {
		km.bindings[fmt.Sprint(d)] = calcx.Digit(d)
	}
	for key, action := range map[string]string{
		".":       "decimal",
		"+":       "add",
		"-":       "subtract",
		"*":       "multiply",
		"/":       "divide",
		"^":       "power",
		KeyEnter:  "equals",
		"=":       "equals",
		KeyEscape: "clear",
		"c":       "clear",
		"C":       "clear",
		"s":       "square",
		"S":       "square",
		"r":       "sqrt",
		"R":       "sqrt",
		"i":       "reciprocal",
		"I":       "reciprocal",
		"n":       "negate",
		"N":       "negate",
	} {
		km.bindings[key] = actions[action]
	}
	return km
}

// WithOverrides returns a copy of km with key -> action bindings applied on
// top. An empty action removes the binding.
func (km *Keymap) WithOverrides(overrides map[string]string) (*Keymap, error) {
	out := &Keymap{bindings: make(map[string]calcx.Input, len(km.bindings))}
	for k, v := range km.bindings {
		out.bindings[k] = v
	}
	for key, action := range overrides {
		if key == "" {
			return nil, fmt.Errorf("%w: empty key", ErrUnknownKey)
		}
		if action == "" {
			delete(out.bindings, key)
			continue
		}
		in, err := ParseAction(action)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", key, err)
		}
		out.bindings[key] = in
	}
	return out, nil
}

// Lookup returns the input bound to key.
func (km *Keymap) Lookup(key string) (calcx.Input, bool) {
	in, ok := km.bindings[key]
	return in, ok
}

// Keys translates a string of single-character keys into inputs. Whitespace
// is ignored.
func (km *Keymap) Keys(s string) ([]calcx.Input, error) {
	var out []calcx.Input
	for i, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		in, ok := km.bindings[string(r)]
		if !ok {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrUnknownKey, r, i)
		}
		out = append(out, in)
	}
	return out, nil
}

// Bindings returns the bound keys in sorted order.
func (km *Keymap) Bindings() []string {
	keys := make([]string, 0, len(km.bindings))
	for k := range km.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type file struct {
	Bindings map[string]string `yaml:"bindings"`
}

// Load reads a YAML file of the form
//
//	bindings:
//	  x: multiply
//	  q: clear
//
// and applies it on top of the default table.
func Load(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return Default().WithOverrides(f.Bindings)
}
