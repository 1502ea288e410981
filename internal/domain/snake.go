package domain

// MinSnakeLength is the shortest a snake can be shrunk to.
const MinSnakeLength = 2

// Snake is a head-first list of grid cells moving on a wraparound grid.
type Snake struct {
	segments  []Point     // index 0 is the head
	direction Direction   // committed direction
	pending   []Direction // queued direction changes, oldest first
	gridSize  int
}

// NewSnake lays out a snake of the given length with its body trailing behind
// head, opposite to dir. Every segment is wrapped into the grid.
func NewSnake(head Point, dir Direction, length, gridSize int) *Snake {
	if length < MinSnakeLength {
		length = MinSnakeLength
	}
	back := dir.Opposite().Delta()
	segments := make([]Point, 0, length)
	cell := head
	for i := 0; i < length; i++ {
		segments = append(segments, cell.Wrap(gridSize))
		cell = cell.Add(back)
	}
	return &Snake{
		segments:  segments,
		direction: dir,
		gridSize:  gridSize,
	}
}

// QueueTurn schedules a relative turn, computed from the newest queued
// direction or the committed one when nothing is queued.
func (s *Snake) QueueTurn(t Turn) {
	if t == TurnNone {
		return
	}
	last := s.direction
	if n := len(s.pending); n > 0 {
		last = s.pending[n-1]
	}
	s.pending = append(s.pending, last.Turn(t))
}

// Advance commits the oldest queued direction and moves one cell, keeping the
// length constant.
func (s *Snake) Advance() {
	if len(s.pending) > 0 {
		s.direction = s.pending[0]
		s.pending = s.pending[1:]
	}
	head := s.segments[0].Add(s.direction.Delta()).Wrap(s.gridSize)

	copy(s.segments[1:], s.segments[:len(s.segments)-1])
	s.segments[0] = head
}

// Grow duplicates the tail. The extra segment separates on the next Advance.
func (s *Snake) Grow() {
	s.segments = append(s.segments, s.segments[len(s.segments)-1])
}

// Shrink drops the tail unless that would leave fewer than MinSnakeLength segments.
func (s *Snake) Shrink() {
	if len(s.segments) <= MinSnakeLength {
		return
	}
	s.segments = s.segments[:len(s.segments)-1]
}

// Reverse swaps head and tail, flips the committed direction and clears the
// pending queue.
func (s *Snake) Reverse() {
	for i, j := 0, len(s.segments)-1; i < j; i, j = i+1, j-1 {
		s.segments[i], s.segments[j] = s.segments[j], s.segments[i]
	}
	s.direction = s.direction.Opposite()
	s.pending = nil
}

// Head returns the head cell.
func (s *Snake) Head() Point {
	return s.segments[0]
}

// Segments returns a copy of the body, head first.
func (s *Snake) Segments() []Point {
	return append([]Point(nil), s.segments...)
}

// Len returns the number of segments.
func (s *Snake) Len() int {
	return len(s.segments)
}

// Direction returns the committed direction.
func (s *Snake) Direction() Direction {
	return s.direction
}

// Pending returns a copy of the queued directions, oldest first.
func (s *Snake) Pending() []Direction {
	return append([]Direction(nil), s.pending...)
}

// GridSize returns the side of the grid the snake moves on.
func (s *Snake) GridSize() int {
	return s.gridSize
}

// Occupies reports whether any segment, head included, is on p.
func (s *Snake) Occupies(p Point) bool {
	for _, seg := range s.segments {
		if seg == p {
			return true
		}
	}
	return false
}

// IsHead reports whether p is the head cell.
func (s *Snake) IsHead(p Point) bool {
	return s.segments[0] == p
}

// Clone returns an independent copy.
func (s *Snake) Clone() *Snake {
	return &Snake{
		segments:  s.Segments(),
		direction: s.direction,
		pending:   s.Pending(),
		gridSize:  s.gridSize,
	}
}
