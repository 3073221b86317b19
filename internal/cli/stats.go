package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// writeStats prints every counter of the registry, one sample per line:
//
//	triq_queries_total form=ask status=ok 1
func writeStats(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			parts := []string{mf.GetName()}
			for _, label := range m.GetLabel() {
				parts = append(parts, label.GetName()+"="+label.GetValue())
			}
			parts = append(parts, fmt.Sprintf("%g", m.GetCounter().GetValue()))
			lines = append(lines, strings.Join(parts, " "))
		}
	}
	sort.Strings(lines)

	if _, err := fmt.Fprintln(w, "# stats"); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
