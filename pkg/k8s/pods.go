package k8s

import (
	"context"
	"sort"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const kindPod = "pod"

type PodConfig struct {
	Namespace     string
	Name          string
	ContainerName string
	Image         string
	Labels        map[string]string
	Env           map[string]string
	Ports         []NamedPort
}

// NamedPort is a container port exposed by the workload.
type NamedPort struct {
	Name string
	Port int32
}

func CreatePod(ctx context.Context, client kubernetes.Interface, cfg PodConfig) (CreateOutcome, error) {
	_, err := client.CoreV1().Pods(cfg.Namespace).Create(ctx, buildPod(cfg), metav1.CreateOptions{})
	return classifyCreate(kindPod, cfg.Namespace, cfg.Name, err)
}

func buildPod(cfg PodConfig) *corev1.Pod {
	containerName := cfg.ContainerName
	if containerName == "" {
		containerName = cfg.Name
	}

	envNames := make([]string, 0, len(cfg.Env))
	for name := range cfg.Env {
		envNames = append(envNames, name)
	}
	sort.Strings(envNames)
	env := make([]corev1.EnvVar, 0, len(envNames))
	for _, name := range envNames {
		env = append(env, corev1.EnvVar{Name: name, Value: cfg.Env[name]})
	}

	ports := make([]corev1.ContainerPort, 0, len(cfg.Ports))
	for _, p := range cfg.Ports {
		ports = append(ports, corev1.ContainerPort{
			Name:          p.Name,
			ContainerPort: p.Port,
			Protocol:      corev1.ProtocolTCP,
		})
	}

	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      cfg.Name,
			Namespace: cfg.Namespace,
			Labels:    copyLabels(cfg.Labels),
		},
		Spec: corev1.PodSpec{
			RestartPolicy: corev1.RestartPolicyAlways,
			Containers: []corev1.Container{
				{
					Name:  containerName,
					Image: cfg.Image,
					Env:   env,
					Ports: ports,
				},
			},
		},
	}
}

func GetPod(ctx context.Context, client kubernetes.Interface, namespace, name string) (*corev1.Pod, error) {
	return client.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
}

// IsPodPending reports whether the pod has not left the Pending phase yet.
// An empty phase means the kubelet has not reported status and counts as pending.
func IsPodPending(phase corev1.PodPhase) bool {
	return phase == "" || phase == corev1.PodPending
}

// PodRestarts sums restart counts over all containers.
func PodRestarts(pod *corev1.Pod) int32 {
	var restarts int32
	for _, status := range pod.Status.ContainerStatuses {
		restarts += status.RestartCount
	}
	return restarts
}

func IsPodReady(pod *corev1.Pod) bool {
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady && cond.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}
