package windowtable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1broseidon/windowless/internal/geometry"
)

func TestCursorState_Update(t *testing.T) {
	table := New()
	root := mustInsert(t, table, geometry.New(0, 0, 100, 100))
	a := mustInsert(t, table, geometry.New(0, 0, 50, 50))
	b := mustInsert(t, table, geometry.New(0, 0, 25, 25))

	var cursor CursorState

	assert.True(t, cursor.Update(table, 10, 10))
	assert.Equal(t, []Key{b}, cursor.Windows)
	assert.Equal(t, Point{X: 10, Y: 10}, cursor.Position)

	assert.False(t, cursor.Update(table, 11, 12), "moving within the same window is not a change")
	assert.Equal(t, Point{X: 11, Y: 12}, cursor.Position)

	assert.True(t, cursor.Update(table, 30, 30))
	assert.Equal(t, []Key{a}, cursor.Windows)

	assert.True(t, cursor.Update(table, 75, 75))
	assert.Equal(t, []Key{root}, cursor.Windows)

	assert.True(t, cursor.Update(table, 200, 200))
	assert.Empty(t, cursor.Windows)
}

func TestCursorState_AfterReset(t *testing.T) {
	table := New()
	mustInsert(t, table, geometry.New(0, 0, 100, 100))

	var cursor CursorState
	cursor.Update(table, 5, 5)
	assert.Len(t, cursor.Windows, 1)

	table.Reset()
	assert.True(t, cursor.Update(table, 5, 5))
	assert.Empty(t, cursor.Windows)

	cursor.Update(table, 5, 5)
	cursor.Clear()
	assert.Nil(t, cursor.Windows)
}
