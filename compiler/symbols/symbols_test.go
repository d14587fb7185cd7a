package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternStable(t *testing.T) {
	tab := NewTable()

	foo := tab.Intern("foo")
	bar := tab.Intern("bar")

	require.NotEqual(t, foo, bar)
	require.Equal(t, foo, tab.Intern("foo"))
	require.Equal(t, bar, tab.Intern("bar"))

	require.Equal(t, "foo", tab.Name(foo))
	require.Equal(t, "bar", tab.Name(bar))
}

func TestInternDense(t *testing.T) {
	tab := NewTable()

	require.Equal(t, Symbol(0), tab.Intern("a"))
	require.Equal(t, Symbol(1), tab.Intern("b"))
	require.Equal(t, Symbol(2), tab.Intern("c"))
	require.Equal(t, Symbol(1), tab.Intern("b"))
	require.Equal(t, 3, tab.Len())
}

func TestLookup(t *testing.T) {
	tab := NewTable()

	_, ok := tab.Lookup("missing")
	require.False(t, ok)

	s := tab.Intern("present")

	got, ok := tab.Lookup("present")
	require.True(t, ok)
	require.Equal(t, s, got)
}
