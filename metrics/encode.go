package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/common/expfmt"
)

// EncodeToString renders every registered instrument in the Prometheus
// plaintext exposition format. Failures are reported to the caller and
// have no effect on in-flight call tracking.
func EncodeToString() (string, error) {
	families, err := getSettings().Registry.Gather()
	if err != nil {
		return "", fmt.Errorf("metrics: gather: %w", err)
	}

	var out strings.Builder
	enc := expfmt.NewEncoder(&out, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return "", fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}

	return out.String(), nil
}
