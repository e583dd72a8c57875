package inputmap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ValueType string

const (
	Boolean ValueType = "Boolean"
	Axis1D  ValueType = "Axis1D"
	Axis2D  ValueType = "Axis2D"
)

type Modifier string

const (
	// Negate flips the sign of every component.
	Negate Modifier = "Negate"
	// SwizzleYXZ swaps the X and Y components.
	SwizzleYXZ Modifier = "SwizzleYXZ"
)

const (
	MoveAction   = "IA_Move"
	AttackAction = "IA_Attack"
	ZoomAction   = "IA_Zoom"
	RotateAction = "IA_Rotate"
	PlayerInput  = "IMC_PlayerInput"
)

type Action struct {
	Name      string    `yaml:"name"`
	ValueType ValueType `yaml:"value_type"`
}

// Mapping binds a key to an action. Modifiers are applied in order.
type Mapping struct {
	Action    string     `yaml:"action"`
	Key       string     `yaml:"key"`
	Modifiers []Modifier `yaml:"modifiers,omitempty"`
}

type Context struct {
	Name     string    `yaml:"name"`
	Actions  []Action  `yaml:"actions"`
	Mappings []Mapping `yaml:"mappings"`
}

type Value struct {
	X, Y, Z float64
}

// Active reports whether any component is non-zero.
func (v Value) Active() bool {
	return v.X != 0 || v.Y != 0 || v.Z != 0
}

type Values map[string]Value

func (v Values) Axis2D(action string) (float64, float64) {
	val := v[action]
	return val.X, val.Y
}

func (v Values) Axis1D(action string) float64 {
	return v[action].X
}

func (v Values) Bool(action string) bool {
	return v[action].Active()
}

// Default returns the player context: WASD movement, left mouse attack,
// and camera zoom (E/Q or the wheel) and rotation (X/Z).
func Default() *Context {
	return &Context{
		Name: PlayerInput,
		Actions: []Action{
			{Name: MoveAction, ValueType: Axis2D},
			{Name: AttackAction, ValueType: Boolean},
			{Name: ZoomAction, ValueType: Axis1D},
			{Name: RotateAction, ValueType: Axis1D},
		},
		Mappings: []Mapping{
			{Action: MoveAction, Key: "W", Modifiers: []Modifier{SwizzleYXZ}},
			{Action: MoveAction, Key: "S", Modifiers: []Modifier{SwizzleYXZ, Negate}},
			{Action: MoveAction, Key: "A", Modifiers: []Modifier{Negate}},
			{Action: MoveAction, Key: "D"},
			{Action: AttackAction, Key: "LeftMouseButton"},
			{Action: ZoomAction, Key: "E"},
			{Action: ZoomAction, Key: "Q", Modifiers: []Modifier{Negate}},
			{Action: ZoomAction, Key: "MouseWheelUp"},
			{Action: ZoomAction, Key: "MouseWheelDown", Modifiers: []Modifier{Negate}},
			{Action: RotateAction, Key: "X"},
			{Action: RotateAction, Key: "Z", Modifiers: []Modifier{Negate}},
		},
	}
}

// Validate checks that every mapping targets a declared action and uses
// known modifiers.
func (c *Context) Validate() error {
	actions := make(map[string]ValueType, len(c.Actions))
	for _, a := range c.Actions {
		switch a.ValueType {
		case Boolean, Axis1D, Axis2D:
		default:
			return fmt.Errorf("inputmap: action %s: unknown value type %q", a.Name, a.ValueType)
		}
		if _, dup := actions[a.Name]; dup {
			return fmt.Errorf("inputmap: duplicate action %s", a.Name)
		}
		actions[a.Name] = a.ValueType
	}
	for _, m := range c.Mappings {
		if _, ok := actions[m.Action]; !ok {
			return fmt.Errorf("inputmap: mapping %s targets unknown action %s", m.Key, m.Action)
		}
		if m.Key == "" {
			return fmt.Errorf("inputmap: mapping for %s has no key", m.Action)
		}
		for _, mod := range m.Modifiers {
			if mod != Negate && mod != SwizzleYXZ {
				return fmt.Errorf("inputmap: mapping %s: unknown modifier %q", m.Key, mod)
			}
		}
	}
	return nil
}

// Evaluate sums the contribution of every pressed key into its action.
// Boolean actions report X=1 while any of their keys is pressed.
func (c *Context) Evaluate(pressed func(key string) bool) Values {
	types := make(map[string]ValueType, len(c.Actions))
	out := make(Values, len(c.Actions))
	for _, a := range c.Actions {
		types[a.Name] = a.ValueType
		out[a.Name] = Value{}
	}

	for _, m := range c.Mappings {
		vt, ok := types[m.Action]
		if !ok || !pressed(m.Key) {
			continue
		}
		v := Value{X: 1}
		for _, mod := range m.Modifiers {
			switch mod {
			case Negate:
				v = Value{X: -v.X, Y: -v.Y, Z: -v.Z}
			case SwizzleYXZ:
				v = Value{X: v.Y, Y: v.X, Z: v.Z}
			}
		}

		cur := out[m.Action]
		switch vt {
		case Boolean:
			cur = Value{X: 1}
		case Axis1D:
			cur.X += v.X
		default:
			cur.X += v.X
			cur.Y += v.Y
		}
		out[m.Action] = cur
	}
	return out
}

// Keys lists the distinct keys referenced by the context in mapping order.
func (c *Context) Keys() []string {
	seen := make(map[string]bool, len(c.Mappings))
	keys := make([]string, 0, len(c.Mappings))
	for _, m := range c.Mappings {
		if !seen[m.Key] {
			seen[m.Key] = true
			keys = append(keys, m.Key)
		}
	}
	return keys
}

func Marshal(c *Context) ([]byte, error) {
	return yaml.Marshal(c)
}

func Unmarshal(data []byte) (*Context, error) {
	var c Context
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("inputmap: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Context) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("inputmap: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func Load(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inputmap: %w", err)
	}
	return Unmarshal(data)
}
