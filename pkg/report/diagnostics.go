package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"k8s-zoo-benchmark/pkg/benchmark"
	"k8s-zoo-benchmark/pkg/k8s"
	"k8s-zoo-benchmark/pkg/workload"
)

// FormatNodeAddresses renders "name=address" pairs sorted by node name.
func FormatNodeAddresses(nodes []k8s.NodeInfo) string {
	if len(nodes) == 0 {
		return "-"
	}
	sorted := append([]k8s.NodeInfo(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	parts := make([]string, 0, len(sorted))
	for _, node := range sorted {
		address := node.Address
		if address == "" {
			address = "none"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", node.Name, address))
	}
	return strings.Join(parts, " ")
}

func WriteNodeTable(w io.Writer, nodes []k8s.NodeInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tADDRESS\tREADY\tSCHEDULABLE\tROLE\tCPU\tMEMORY")
	for _, node := range nodes {
		role := "worker"
		if node.ControlPlane {
			role = "control-plane"
		}
		address := node.Address
		if address == "" {
			address = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%s\t%dm\t%s\n",
			node.Name, address, node.Ready, !node.Unschedulable, role, node.CPUMilli, formatBytes(node.MemoryBytes))
	}
	return tw.Flush()
}

func WriteResultTable(w io.Writer, result benchmark.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tWORKERS\tREQUESTS\tPAYLOAD\tELAPSED\tSUCCEEDED\tFAILED\tCONFIRMED")
	for _, entry := range result.Entries {
		elapsed := entry.Elapsed.String()
		if entry.Interrupted {
			elapsed += " (interrupted)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%d\t%d\t%t\n",
			entry.Mode, entry.Profile.Workers, entry.Profile.RequestsPerWorker, entry.Profile.PayloadSize,
			elapsed, entry.Succeeded, entry.Failed, entry.ModeConfirmed)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if slowdown, ok := result.Slowdown(workload.ModeNoBackup, workload.ModeSerializeBackup); ok {
		_, err := fmt.Fprintf(w, "%s/%s: %.2fx\n", workload.ModeSerializeBackup, workload.ModeNoBackup, slowdown)
		return err
	}
	return nil
}

// FormatPhases renders phase markers as offsets from the first marker.
func FormatPhases(phases []PhaseMarker) string {
	if len(phases) == 0 {
		return "none"
	}
	origin := phases[0].Time
	parts := make([]string, 0, len(phases))
	for _, phase := range phases {
		parts = append(parts, fmt.Sprintf("%s+%.1fs", phase.Name, phase.Time.Sub(origin).Seconds()))
	}
	return strings.Join(parts, " ")
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ci", float64(n)/float64(div), "KMGTPE"[exp])
}
