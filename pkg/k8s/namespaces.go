package k8s

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const kindNamespace = "namespace"

func CreateNamespace(ctx context.Context, client kubernetes.Interface, name string, labels map[string]string) (CreateOutcome, error) {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: copyLabels(labels),
		},
	}
	_, err := client.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	return classifyCreate(kindNamespace, "", name, err)
}

func DeleteNamespace(ctx context.Context, client kubernetes.Interface, name string) error {
	err := client.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err == nil {
		return nil
	}
	if apierrors.IsNotFound(err) {
		return newResourceError(kindNamespace, "", name, ErrNotFound, err)
	}
	return &ResourceError{Kind: kindNamespace, Name: name, Err: err}
}

func NamespaceExists(ctx context.Context, client kubernetes.Interface, name string) (bool, error) {
	_, err := client.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err == nil {
		return true, nil
	}
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func ListNamespaces(ctx context.Context, client kubernetes.Interface, selector string) ([]corev1.Namespace, error) {
	list, err := client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// FindNamespace returns the namespace with the given name from a listing.
func FindNamespace(namespaces []corev1.Namespace, name string) (corev1.Namespace, bool) {
	for _, ns := range namespaces {
		if ns.Name == name {
			return ns, true
		}
	}
	return corev1.Namespace{}, false
}

func copyLabels(labels map[string]string) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}
