package k8s

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func readyNode(name string, addrs ...corev1.NodeAddress) corev1.Node {
	return corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Addresses:  addrs,
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionTrue}},
		},
	}
}

func TestUnschedulableNodeNames(t *testing.T) {
	nodes := []corev1.Node{
		{ObjectMeta: metav1.ObjectMeta{Name: "a"}},
		{ObjectMeta: metav1.ObjectMeta{Name: "b"}, Spec: corev1.NodeSpec{Unschedulable: true}},
		{ObjectMeta: metav1.ObjectMeta{Name: "c"}, Spec: corev1.NodeSpec{Taints: []corev1.Taint{{Key: "node.kubernetes.io/unschedulable", Effect: corev1.TaintEffectNoSchedule}}}},
	}
	got := UnschedulableNodeNames(nodes)
	if len(got) != 2 {
		t.Fatalf("expected 2 unschedulable nodes, got %d", len(got))
	}
	if got[0] != "b" || got[1] != "c" {
		t.Fatalf("unexpected nodes: %v", got)
	}
}

func TestNodeAddressPrefersExternal(t *testing.T) {
	node := readyNode("a",
		corev1.NodeAddress{Type: corev1.NodeInternalIP, Address: "10.0.0.1"},
		corev1.NodeAddress{Type: corev1.NodeExternalIP, Address: "203.0.113.5"},
	)
	if got := NodeAddress(node); got != "203.0.113.5" {
		t.Fatalf("expected external address, got %q", got)
	}

	internalOnly := readyNode("b", corev1.NodeAddress{Type: corev1.NodeInternalIP, Address: "10.0.0.2"})
	if got := NodeAddress(internalOnly); got != "10.0.0.2" {
		t.Fatalf("expected internal address, got %q", got)
	}
}

func TestReachableAddressSkipsUnready(t *testing.T) {
	unready := corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "a"},
		Status: corev1.NodeStatus{
			Addresses: []corev1.NodeAddress{{Type: corev1.NodeInternalIP, Address: "10.0.0.1"}},
		},
	}
	ready := readyNode("b", corev1.NodeAddress{Type: corev1.NodeInternalIP, Address: "10.0.0.2"})

	got, err := ReachableAddress([]corev1.Node{unready, ready})
	if err != nil {
		t.Fatalf("ReachableAddress failed: %v", err)
	}
	if got != "10.0.0.2" {
		t.Fatalf("expected 10.0.0.2, got %q", got)
	}

	if _, err := ReachableAddress([]corev1.Node{unready}); err == nil {
		t.Fatalf("expected error when no node is ready")
	}
}

func TestDescribeNodesCapacity(t *testing.T) {
	node := readyNode("worker")
	node.Status.Capacity = corev1.ResourceList{
		corev1.ResourceCPU:    resource.MustParse("2"),
		corev1.ResourceMemory: resource.MustParse("4Gi"),
	}
	cp := readyNode("cp")
	cp.Labels = map[string]string{"node-role.kubernetes.io/control-plane": ""}

	infos := DescribeNodes([]corev1.Node{node, cp})
	if len(infos) != 2 || infos[0].Name != "cp" {
		t.Fatalf("expected sorted infos, got %+v", infos)
	}
	if !infos[0].ControlPlane {
		t.Fatalf("expected control plane flag on cp")
	}
	if infos[1].CPUMilli != 2000 {
		t.Fatalf("expected 2000m cpu, got %d", infos[1].CPUMilli)
	}
	if infos[1].MemoryBytes != 4*1024*1024*1024 {
		t.Fatalf("unexpected memory: %d", infos[1].MemoryBytes)
	}
	if CountSchedulableNodes([]corev1.Node{node, cp}) != 2 {
		t.Fatalf("expected both ready nodes schedulable")
	}
}
