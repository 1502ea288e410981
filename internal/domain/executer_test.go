package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardExecuterRoundProgression(t *testing.T) {
	snake := NewSnake(Point{X: 5, Y: 5}, Right, 3, 20)
	exec := NewCardExecuter([]Card{{Effect: EffectSkip}, {Effect: EffectSkip}}, 3)

	var results []StepResult
	for !exec.Finished() {
		results = append(results, exec.Step(snake))
		require.Less(t, len(results), 20, "executer never finished")
	}

	assert.Equal(t, []StepResult{
		StepApplied, StepApplied, StepRoundAdvanced,
		StepApplied, StepApplied, StepRoundAdvanced,
		StepApplied, StepApplied, StepRoundLimit,
	}, results)
	assert.Equal(t, 4, exec.Round())
	assert.Equal(t, 0, exec.Index())
	assert.Equal(t, StepIdle, exec.Step(snake))
}

func TestCardExecuterAppliesEffectsInOrder(t *testing.T) {
	snake := NewSnake(Point{X: 5, Y: 5}, Right, 3, 20)
	exec := NewCardExecuter([]Card{
		{Effect: EffectMove, Turn: TurnRight},
		{Effect: EffectDoubleMove},
		{Effect: EffectGrow},
	}, 1)

	current, ok := exec.Current()
	require.True(t, ok)
	assert.Equal(t, EffectMove, current.Effect)

	require.Equal(t, StepApplied, exec.Step(snake))
	assert.Equal(t, Point{X: 5, Y: 6}, snake.Head())
	assert.Equal(t, Down, snake.Direction())

	require.Equal(t, StepApplied, exec.Step(snake))
	assert.Equal(t, Point{X: 5, Y: 8}, snake.Head())

	require.Equal(t, StepApplied, exec.Step(snake))
	assert.Equal(t, 4, snake.Len())
	last, ok := exec.LastApplied()
	require.True(t, ok)
	assert.Equal(t, EffectGrow, last.Effect)

	assert.Equal(t, StepRoundLimit, exec.Step(snake))
	assert.True(t, exec.Finished())
	_, ok = exec.Current()
	assert.False(t, ok)
}

func TestCardExecuterCopiesQueue(t *testing.T) {
	cards := []Card{{Effect: EffectSkip}}
	exec := NewCardExecuter(cards, 1)
	cards[0].Effect = EffectReverse

	assert.Equal(t, EffectSkip, exec.Cards()[0].Effect)
}

func TestCardEffectTable(t *testing.T) {
	tests := []struct {
		name   string
		card   Card
		head   Point
		dir    Direction
		length int
	}{
		{name: "move turns then advances", card: Card{Effect: EffectMove, Turn: TurnLeft}, head: Point{X: 10, Y: 9}, dir: Up, length: 4},
		{name: "double move goes straight twice", card: Card{Effect: EffectDoubleMove}, head: Point{X: 12, Y: 10}, dir: Right, length: 4},
		{name: "grow then advance", card: Card{Effect: EffectGrow}, head: Point{X: 11, Y: 10}, dir: Right, length: 5},
		{name: "shrink then advance", card: Card{Effect: EffectShrink}, head: Point{X: 11, Y: 10}, dir: Right, length: 3},
		{name: "reverse flips in place", card: Card{Effect: EffectReverse}, head: Point{X: 7, Y: 10}, dir: Left, length: 4},
		{name: "skip does nothing", card: Card{Effect: EffectSkip}, head: Point{X: 10, Y: 10}, dir: Right, length: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSnake(Point{X: 10, Y: 10}, Right, 4, 20)
			tt.card.Apply(s)
			assert.Equal(t, tt.head, s.Head())
			assert.Equal(t, tt.dir, s.Direction())
			assert.Equal(t, tt.length, s.Len())
		})
	}
}
