package anim

import "fmt"

// Kind is the semantic role of one sprite-sheet row.
type Kind int

const (
	Unknown Kind = iota - 1
	Idle
	Move
	AttackSideways
	AttackSideways2
	AttackDownwards
	AttackDownwards2
	AttackUpwards
	AttackUpwards2
)

var kindNames = [...]string{
	Idle:             "Idle",
	Move:             "Move",
	AttackSideways:   "AttackSideways",
	AttackSideways2:  "AttackSideways2",
	AttackDownwards:  "AttackDownwards",
	AttackDownwards2: "AttackDownwards2",
	AttackUpwards:    "AttackUpwards",
	AttackUpwards2:   "AttackUpwards2",
}

// Kinds lists the known kinds in row order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// KindForRow maps a sheet row to its kind. Rows past the table are Unknown.
func KindForRow(row int) Kind {
	if row < 0 || row >= len(kindNames) {
		return Unknown
	}
	return Kind(row)
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// ParseKind is the inverse of String. Unrecognized names yield Unknown.
func ParseKind(s string) Kind {
	for i, n := range kindNames {
		if n == s {
			return Kind(i)
		}
	}
	return Unknown
}

// IsAttack reports whether k is one of the six attack rows.
func (k Kind) IsAttack() bool {
	return k >= AttackSideways && k <= AttackUpwards2
}

// Alternate returns the paired attack variant (AttackSideways <->
// AttackSideways2 and so on). Non-attack kinds are returned unchanged.
func (k Kind) Alternate() Kind {
	if !k.IsAttack() {
		return k
	}
	if (k-AttackSideways)%2 == 0 {
		return k + 1
	}
	return k - 1
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	s := string(b)
	v := ParseKind(s)
	if v == Unknown && s != "Unknown" {
		return fmt.Errorf("anim: unknown animation kind %q", s)
	}
	*k = v
	return nil
}
