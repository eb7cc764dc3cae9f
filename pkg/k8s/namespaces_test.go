package k8s

import (
	"context"
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestCreateNamespaceOutcomes(t *testing.T) {
	ctx := context.Background()
	client := fake.NewSimpleClientset()

	outcome, err := CreateNamespace(ctx, client, "zebra-zoo", map[string]string{"zoobench.io/managed": "true"})
	if err != nil || outcome != OutcomeCreated {
		t.Fatalf("expected created, got %s %v", outcome, err)
	}
	ns, err := client.CoreV1().Namespaces().Get(ctx, "zebra-zoo", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("expected namespace: %v", err)
	}
	if ns.Labels["zoobench.io/managed"] != "true" {
		t.Fatalf("expected managed label, got %v", ns.Labels)
	}

	outcome, err = CreateNamespace(ctx, client, "zebra-zoo", nil)
	if outcome != OutcomeAlreadyExists {
		t.Fatalf("expected already-exists outcome, got %s", outcome)
	}
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDeleteNamespaceNotFound(t *testing.T) {
	client := fake.NewSimpleClientset()
	err := DeleteNamespace(context.Background(), client, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNamespaceExistsAndFind(t *testing.T) {
	ctx := context.Background()
	client := fake.NewSimpleClientset(&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "zebra-zoo"}})

	exists, err := NamespaceExists(ctx, client, "zebra-zoo")
	if err != nil || !exists {
		t.Fatalf("expected namespace to exist: %v", err)
	}
	exists, err = NamespaceExists(ctx, client, "other")
	if err != nil || exists {
		t.Fatalf("expected namespace absent: %v", err)
	}

	list, err := ListNamespaces(ctx, client, "")
	if err != nil {
		t.Fatalf("ListNamespaces failed: %v", err)
	}
	if _, ok := FindNamespace(list, "zebra-zoo"); !ok {
		t.Fatalf("expected FindNamespace to locate zebra-zoo")
	}
	if _, ok := FindNamespace(list, "other"); ok {
		t.Fatalf("expected FindNamespace miss")
	}
}
