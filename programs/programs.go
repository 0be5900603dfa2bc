package programs

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownProgram = errors.New("unknown fractal program")
	ErrInvalidProgram = errors.New("invalid fractal program")
)

// Rule advances the orbit of a point by one step.
type Rule func(z, c complex128) complex128

// Program is a named escape-time fractal.
//
// Start gives the first orbit value for the point c. When nil, orbits start at
// zero, which is what the Mandelbrot family expects.
type Program struct {
	Name  string
	Rule  Rule
	Start func(c complex128) complex128
}

var (
	programsMu sync.RWMutex
	programs   []Program
)

func NumPrograms() int {
	programsMu.RLock()
	defer programsMu.RUnlock()
	return len(programs)
}

func GetProgram(i int) Program {
	programsMu.RLock()
	defer programsMu.RUnlock()
	return programs[i]
}

// NewProgram registers p so it can be selected by name.
func NewProgram(p Program) error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProgram)
	}
	if p.Rule == nil {
		return fmt.Errorf("%w: %q has no rule", ErrInvalidProgram, p.Name)
	}

	programsMu.Lock()
	defer programsMu.Unlock()
	for _, existing := range programs {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: %q is already registered", ErrInvalidProgram, p.Name)
		}
	}

	programs = append(programs, p)
	return nil
}

// Lookup returns the registered program with the given name.
func Lookup(name string) (Program, error) {
	programsMu.RLock()
	defer programsMu.RUnlock()
	for _, p := range programs {
		if p.Name == name {
			return p, nil
		}
	}
	return Program{}, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
}

// Names lists the registered programs in registration order.
func Names() []string {
	programsMu.RLock()
	defer programsMu.RUnlock()
	names := make([]string, len(programs))
	for i, p := range programs {
		names[i] = p.Name
	}
	return names
}

func init() {
	for _, p := range []Program{
		mandelbrot,
		burningship,
		collatz,
		expcosh,
		multibrot3,
		tricorn,
		multibrot6,
		multibrot8,
		multibrot4And8,
	} {
		if err := NewProgram(p); err != nil {
			panic(err)
		}
	}
}
