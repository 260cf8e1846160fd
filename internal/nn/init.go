package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/surrogate/internal/tensor"
	"gonum.org/v1/gonum/stat/distuv"
)

// glorotTruncation rescales the standard deviation of a normal distribution
// truncated at two standard deviations back to the requested value.
const glorotTruncation = 0.87962566103423978

// GlorotNormal initializes weights from a truncated normal distribution
// centered on 0 with stddev = sqrt(2 / (fan_in + fan_out)).
//
// Samples further than two standard deviations from the mean are redrawn.
// A nil src draws from the global random source.
func GlorotNormal(fanIn, fanOut int, shape tensor.Shape, src rand.Source) *tensor.RawTensor {
	stddev := math.Sqrt(2.0/float64(fanIn+fanOut)) / glorotTruncation
	dist := distuv.Normal{Mu: 0, Sigma: stddev, Src: src}

	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		v := dist.Rand()
		for math.Abs(v) > 2*stddev {
			v = dist.Rand()
		}
		data[i] = float32(v)
	}
	return t
}
