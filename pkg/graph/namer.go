package graph

import "strconv"

// suffixLimit bounds deterministic collision suffixing. Hitting it means the
// input is pathological; the run fails with NameCollision.
const suffixLimit = 1000

// Namer is the run-wide name-collision table. It is threaded explicitly
// through the pipeline stages instead of living in package state, so
// concurrent runs cannot observe each other.
type Namer struct {
	used map[string]bool
}

// NewNamer returns an empty naming context.
func NewNamer() *Namer {
	return &Namer{used: make(map[string]bool)}
}

// Claim reserves base, or the first free deterministic variant of it
// (base2, base3, ...).
func (n *Namer) Claim(base string) (string, error) {
	if base == "" {
		base = "Type"
	}
	if !n.used[base] {
		n.used[base] = true
		return base, nil
	}
	for i := 2; i < suffixLimit; i++ {
		candidate := base + strconv.Itoa(i)
		if !n.used[candidate] {
			n.used[candidate] = true
			return candidate, nil
		}
	}
	return "", Errorf(NameCollision, base, "suffixing exhausted for %q", base)
}

// Taken reports whether name is already reserved.
func (n *Namer) Taken(name string) bool {
	return n.used[name]
}
