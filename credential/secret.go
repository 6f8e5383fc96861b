package credential

// Secret holds sensitive byte material that can be explicitly wiped.
// It exists so client secrets and cached tokens are not left lingering in
// reachable strings: zero on release, zero on reassignment.
type Secret struct {
	data []byte
}

// NewSecret copies value into a new Secret.
func NewSecret(value string) *Secret {
	return &Secret{data: []byte(value)}
}

// Value returns the secret as a string. The returned string is a copy;
// wiping the Secret does not retroactively clear it, so keep its lifetime
// short.
func (s *Secret) Value() string {
	if s == nil {
		return ""
	}
	return string(s.data)
}

// Set replaces the secret material, wiping the previous value first.
func (s *Secret) Set(value string) {
	s.Zero()
	s.data = []byte(value)
}

// Zero overwrites the secret material and releases it.
func (s *Secret) Zero() {
	if s == nil {
		return
	}
	for i := range s.data {
		s.data[i] = 0
	}
	s.data = nil
}

// IsZero reports whether the secret holds no material.
func (s *Secret) IsZero() bool {
	return s == nil || len(s.data) == 0
}

// String implements fmt.Stringer and never exposes the material.
func (s *Secret) String() string {
	if s.IsZero() {
		return ""
	}
	return "[redacted]"
}
