// Package roms provides the programs that are bundled with the interpreter.
package roms

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
)

const extension = ".ch8"

//go:embed data/*.ch8
var files embed.FS

// ErrUnknown is returned for a program name that is not bundled.
var ErrUnknown = errors.New("unknown built-in program")

// Names returns the sorted names of all bundled programs.
func Names() []string {
	entries, err := files.ReadDir("data")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), extension))
	}
	slices.Sort(names)
	return names
}

// Exists returns whether a program with the given name is bundled.
func Exists(name string) bool {
	return slices.Contains(Names(), strings.ToLower(name))
}

// Load returns the program image of the bundled program with the given name.
func Load(name string) ([]byte, error) {
	name = strings.ToLower(name)
	if !Exists(name) {
		return nil, fmt.Errorf("%w '%s', available: %s", ErrUnknown, name, strings.Join(Names(), ", "))
	}

	data, err := files.ReadFile(path.Join("data", name+extension))
	if err != nil {
		return nil, fmt.Errorf("reading built-in program '%s': %w", name, err)
	}
	return data, nil
}
