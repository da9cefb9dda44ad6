package vos

import (
	"fmt"
	"sort"
	"strings"
)

// EnvPWD holds the working directory handed to child processes.
const EnvPWD = "PWD"

// NewMapEnvFromEnvList creates an environment from KEY=value pairs. A pair
// without "=" sets an empty value.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}

	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		out.Setenv(key, value)
	}

	return out
}

// MapEnv is an in-memory set of environment variables.
type MapEnv struct {
	env map[string]string
}

// Setenv sets key to value.
func (m *MapEnv) Setenv(key, value string) {
	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
}

// LookupEnv returns the value of key and whether it was set.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	val, ok := m.env[key]
	return val, ok
}

// Getenv returns the value of key, empty if unset.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// Environ returns the variables as sorted KEY=value pairs.
func (m *MapEnv) Environ() []string {
	env := make([]string, 0, len(m.env))

	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	sort.Strings(env)
	return env
}

// ChildEnviron returns the environment for a process started in dir.
func (m *MapEnv) ChildEnviron(dir string) []string {
	child := NewMapEnvFromEnvList(m.Environ())
	child.Setenv(EnvPWD, dir)
	return child.Environ()
}
