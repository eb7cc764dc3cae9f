package k8s

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/client-go/kubernetes"
)

const kindService = "service"

type ServiceConfig struct {
	Namespace string
	Name      string
	Labels    map[string]string
	Selector  map[string]string
	Ports     []ServicePort
}

// ServicePort maps an exposed port onto a target port and a fixed node port.
type ServicePort struct {
	Name       string
	Port       int32
	TargetPort int32
	NodePort   int32
}

func CreateService(ctx context.Context, client kubernetes.Interface, cfg ServiceConfig) (CreateOutcome, error) {
	_, err := client.CoreV1().Services(cfg.Namespace).Create(ctx, buildService(cfg), metav1.CreateOptions{})
	return classifyCreate(kindService, cfg.Namespace, cfg.Name, err)
}

func buildService(cfg ServiceConfig) *corev1.Service {
	ports := make([]corev1.ServicePort, 0, len(cfg.Ports))
	for _, p := range cfg.Ports {
		ports = append(ports, corev1.ServicePort{
			Name:       p.Name,
			Protocol:   corev1.ProtocolTCP,
			Port:       p.Port,
			TargetPort: intstr.FromInt32(p.TargetPort),
			NodePort:   p.NodePort,
		})
	}
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      cfg.Name,
			Namespace: cfg.Namespace,
			Labels:    copyLabels(cfg.Labels),
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeNodePort,
			Selector: copyLabels(cfg.Selector),
			Ports:    ports,
		},
	}
}
