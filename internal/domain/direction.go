package domain

// Direction is one of the four grid directions a snake can face.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Turn is a direction change relative to the current heading.
type Turn int

const (
	TurnNone Turn = iota
	TurnLeft
	TurnRight
)

// Point is a grid cell. Y grows downward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var directionDeltas = [...]Point{
	Up:    {X: 0, Y: -1},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
	Right: {X: 1, Y: 0},
}

var directionNames = [...]string{
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
}

// Delta returns the unit vector for d.
func (d Direction) Delta() Point {
	return directionDeltas[d]
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Turn returns the heading after turning left or right from d.
// TurnNone keeps d.
func (d Direction) Turn(t Turn) Direction {
	switch t {
	case TurnLeft:
		switch d {
		case Up:
			return Left
		case Down:
			return Right
		case Left:
			return Down
		default:
			return Up
		}
	case TurnRight:
		switch d {
		case Up:
			return Right
		case Down:
			return Left
		case Left:
			return Up
		default:
			return Down
		}
	default:
		return d
	}
}

func (d Direction) String() string {
	if d < Up || d > Right {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection maps a lower-case name back to a Direction.
func ParseDirection(name string) (Direction, bool) {
	for d, n := range directionNames {
		if n == name {
			return Direction(d), true
		}
	}
	return Up, false
}

func (t Turn) String() string {
	switch t {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return ""
	}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Wrap folds p back onto a size x size torus.
func (p Point) Wrap(size int) Point {
	return Point{X: wrap(p.X, size), Y: wrap(p.Y, size)}
}

// InGrid reports whether p lies inside a size x size grid.
func (p Point) InGrid(size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}

func wrap(v, size int) int {
	if size <= 0 {
		return 0
	}
	v %= size
	if v < 0 {
		v += size
	}
	return v
}
