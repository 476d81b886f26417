package recipe

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"gprcli/internal/gather"
)

// Invoker runs a named capability against a gather. *capability.Set
// satisfies it; the dispatcher wraps it to count calls.
type Invoker interface {
	Invoke(ctx context.Context, g *gather.Gather, name string, p gather.Params) error
}

// Procedure is the body of a composite recipe. It receives the raw command
// parameters and calls capabilities only through inv.
type Procedure func(ctx context.Context, inv Invoker, g *gather.Gather, args []string) error

// SlotKind controls how a positional command parameter is parsed
type SlotKind int

const (
	// SlotFloat parses the parameter as a float64
	SlotFloat SlotKind = iota
	// SlotRoundInt parses a float and rounds half to even
	SlotRoundInt
	// SlotOddInt parses an integer and bumps even values to the next odd one
	SlotOddInt
)

func (k SlotKind) String() string {
	switch k {
	case SlotFloat:
		return "float"
	case SlotRoundInt:
		return "round-int"
	case SlotOddInt:
		return "odd-int"
	default:
		return fmt.Sprintf("SlotKind(%d)", int(k))
	}
}

// Slot binds command parameter Index to the template key Key
type Slot struct {
	Index   int
	Key     string
	Kind    SlotKind
	Default any
}

// parse converts a raw command parameter according to the slot kind
func (s Slot) parse(raw string) (any, error) {
	switch s.Kind {
	case SlotRoundInt:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%q is not finite", raw)
		}
		r := math.RoundToEven(f)
		if r > math.MaxInt32 || r < math.MinInt32 {
			return nil, fmt.Errorf("%q is out of integer range", raw)
		}
		return int(r), nil
	case SlotOddInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		if n%2 == 0 {
			n++
		}
		return n, nil
	default:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// Transform is an elementwise operation the core applies itself. Transforms
// are not capability calls and are not recorded in the gather history.
type Transform struct {
	Name string
	Fn   func(float64) float64
}

var (
	// TransformAbs replaces every sample with its absolute value
	TransformAbs = &Transform{Name: "abs", Fn: math.Abs}
	// TransformSquare replaces every sample with its square
	TransformSquare = &Transform{Name: "square", Fn: func(v float64) float64 { return v * v }}
	// TransformCubeRootMagnitude compresses amplitudes to |v|^0.33
	TransformCubeRootMagnitude = &Transform{Name: "cube-root-magnitude", Fn: func(v float64) float64 {
		return math.Pow(math.Abs(v), 0.33)
	}}
)

// Step is one entry of a fixed recipe: either a capability call with a
// parameter template, or a core transform.
type Step struct {
	Capability string
	Params     gather.Params
	Slots      []Slot
	Transform  *Transform
}

// resolve builds the concrete parameters for this step from the template,
// the slot defaults and the command parameters.
func (s Step) resolve(args []string) (gather.Params, error) {
	p := s.Params.Clone()
	for _, slot := range s.Slots {
		if slot.Index < len(args) {
			v, err := slot.parse(args[slot.Index])
			if err != nil {
				return nil, fmt.Errorf("parameter %d (%s): %w", slot.Index, slot.Key, err)
			}
			p = p.Set(slot.Key, v)
			continue
		}
		if slot.Default != nil {
			p = p.Set(slot.Key, slot.Default)
		}
	}
	if p == nil {
		p = gather.Params{}
	}
	return p, nil
}

// Definition is a named recipe. Exactly one of Steps, Procedure or
// Unimplemented describes its body.
type Definition struct {
	Name    string
	Summary string
	Usage   string

	Steps     []Step
	Procedure Procedure

	// Requires lists the capabilities a Procedure calls
	Requires []string

	// Unimplemented marks a catalogued name that only reports a diagnostic
	Unimplemented bool
}

// Composite reports whether the recipe runs a procedure
func (d *Definition) Composite() bool {
	return d.Procedure != nil
}

// Requirements returns the capability names the recipe may call
func (d *Definition) Requirements() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, st := range d.Steps {
		add(st.Capability)
	}
	for _, name := range d.Requires {
		add(name)
	}
	return out
}

// resolveSteps resolves every step before anything runs, so a bad parameter
// never leaves a gather half-processed
func (d *Definition) resolveSteps(args []string) ([]gather.Params, error) {
	out := make([]gather.Params, len(d.Steps))
	for i, st := range d.Steps {
		if st.Transform != nil {
			continue
		}
		p, err := st.resolve(args)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func (d *Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("recipe name cannot be empty")
	}
	bodies := 0
	if len(d.Steps) > 0 {
		bodies++
	}
	if d.Procedure != nil {
		bodies++
	}
	if d.Unimplemented {
		bodies++
	}
	if bodies != 1 {
		return fmt.Errorf("recipe %s must have exactly one of steps, procedure or unimplemented", d.Name)
	}
	for i, st := range d.Steps {
		if (st.Capability == "") == (st.Transform == nil) {
			return fmt.Errorf("recipe %s step %d must name a capability or a transform", d.Name, i)
		}
		if st.Transform != nil && st.Transform.Fn == nil {
			return fmt.Errorf("recipe %s step %d has a transform without a function", d.Name, i)
		}
		for _, slot := range st.Slots {
			if slot.Key == "" || slot.Index < 0 {
				return fmt.Errorf("recipe %s step %d has an invalid slot", d.Name, i)
			}
		}
	}
	return nil
}

func (d Definition) clone() Definition {
	out := d
	out.Steps = make([]Step, len(d.Steps))
	for i, st := range d.Steps {
		st.Params = st.Params.Clone()
		st.Slots = append([]Slot(nil), st.Slots...)
		out.Steps[i] = st
	}
	out.Requires = append([]string(nil), d.Requires...)
	return out
}
