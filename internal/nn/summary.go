package nn

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/born-ml/surrogate/internal/tensor"
)

// Summary renders a Keras-style table of the model's layers, output shapes
// and parameter counts.
func Summary[B tensor.Backend](name string, model *Sequential[B]) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Model: %q\n", name)

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Layer (type)\tOutput Shape\tParam #")

	width := model.InFeatures()
	dense, act := 0, 0
	for _, module := range model.modules {
		var layer string
		switch m := module.(type) {
		case *Linear[B]:
			layer = layerName("dense", dense) + " (Linear)"
			width = m.OutFeatures()
			dense++
		case *Tanh[B]:
			layer = layerName("tanh", act) + " (Tanh)"
			act++
		default:
			layer = fmt.Sprintf("%T", module)
		}
		fmt.Fprintf(tw, "%s\t(None, %d)\t%d\n", layer, width, NumParameters(module.Parameters()))
	}
	_ = tw.Flush()

	total := NumParameters(model.Parameters())
	fmt.Fprintf(&sb, "Total params: %d\n", total)
	fmt.Fprintf(&sb, "Trainable params: %d\n", total)
	fmt.Fprintf(&sb, "Non-trainable params: 0\n")
	return sb.String()
}

func layerName(base string, i int) string {
	if i == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, i)
}
