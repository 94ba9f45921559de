package orbitsim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// AdjustCoordinates maps an orbit-plane position into display space by
// shifting both axes by DisplayOffset and flooring to whole pixels. The shift
// does not depend on the sign of the input.
func AdjustCoordinates(p r2.Vec) (x, y int) {
	return int(math.Floor(p.X + DisplayOffset)), int(math.Floor(p.Y + DisplayOffset))
}
