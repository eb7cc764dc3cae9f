package k8s

import (
	"context"
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// NodeInfo is the subset of node state the benchmark reports on.
type NodeInfo struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Ready         bool   `json:"ready"`
	Unschedulable bool   `json:"unschedulable"`
	ControlPlane  bool   `json:"control_plane"`
	CPUMilli      int64  `json:"cpu_milli"`
	MemoryBytes   int64  `json:"memory_bytes"`
}

func ListNodes(ctx context.Context, client kubernetes.Interface, selector string) ([]corev1.Node, error) {
	list, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

func DescribeNodes(nodes []corev1.Node) []NodeInfo {
	infos := make([]NodeInfo, 0, len(nodes))
	for _, node := range nodes {
		infos = append(infos, NodeInfo{
			Name:          node.Name,
			Address:       NodeAddress(node),
			Ready:         isNodeReady(node),
			Unschedulable: isNodeUnschedulable(node),
			ControlPlane:  IsControlPlaneNode(node.Labels),
			CPUMilli:      node.Status.Capacity.Cpu().MilliValue(),
			MemoryBytes:   node.Status.Capacity.Memory().Value(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// NodeAddress prefers the external address and falls back to the internal one.
func NodeAddress(node corev1.Node) string {
	var internal string
	for _, addr := range node.Status.Addresses {
		switch addr.Type {
		case corev1.NodeExternalIP:
			return addr.Address
		case corev1.NodeInternalIP:
			if internal == "" {
				internal = addr.Address
			}
		}
	}
	return internal
}

// ReachableAddress picks the address of the first ready, schedulable node.
func ReachableAddress(nodes []corev1.Node) (string, error) {
	for _, info := range DescribeNodes(nodes) {
		if !info.Ready || info.Unschedulable || info.Address == "" {
			continue
		}
		return info.Address, nil
	}
	return "", fmt.Errorf("no ready node with a reachable address")
}

func UnschedulableNodeNames(nodes []corev1.Node) []string {
	var names []string
	for _, node := range nodes {
		if isNodeUnschedulable(node) {
			names = append(names, node.Name)
		}
	}
	sort.Strings(names)
	return names
}

func CountSchedulableNodes(nodes []corev1.Node) int {
	count := 0
	for _, node := range nodes {
		if isNodeUnschedulable(node) || !isNodeReady(node) {
			continue
		}
		count++
	}
	return count
}

func IsControlPlaneNode(labels map[string]string) bool {
	if labels == nil {
		return false
	}
	if _, ok := labels["node-role.kubernetes.io/control-plane"]; ok {
		return true
	}
	if _, ok := labels["node-role.kubernetes.io/master"]; ok {
		return true
	}
	return false
}

func isNodeUnschedulable(node corev1.Node) bool {
	if node.Spec.Unschedulable {
		return true
	}
	for _, taint := range node.Spec.Taints {
		if taint.Key == "node.kubernetes.io/unschedulable" && taint.Effect == corev1.TaintEffectNoSchedule {
			return true
		}
	}
	return false
}

func isNodeReady(node corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
