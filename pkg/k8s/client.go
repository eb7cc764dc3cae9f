package k8s

import (
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

type ClientInfo struct {
	Context string `json:"context"`
	Server  string `json:"server"`
}

// NewClient builds a clientset from the default kubeconfig loading rules.
// When expectedContext is set, the current context must match it.
func NewClient(qps float32, burst int, expectedContext string) (*kubernetes.Clientset, ClientInfo, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	configOverrides := &clientcmd.ConfigOverrides{}
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)

	rawConfig, err := kubeConfig.RawConfig()
	if err != nil {
		return nil, ClientInfo{}, fmt.Errorf("failed to get raw kubeconfig: %w", err)
	}

	currentContext := rawConfig.CurrentContext
	if expectedContext != "" && currentContext != expectedContext {
		return nil, ClientInfo{}, fmt.Errorf("refusing to run: kubeconfig context is %q, expected %q", currentContext, expectedContext)
	}

	restConfig, err := kubeConfig.ClientConfig()
	if err != nil {
		return nil, ClientInfo{}, fmt.Errorf("failed to get REST config: %w", err)
	}

	restConfig.QPS = qps
	restConfig.Burst = burst

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, ClientInfo{}, fmt.Errorf("failed to create clientset: %w", err)
	}

	return clientset, ClientInfo{
		Context: currentContext,
		Server:  restConfig.Host,
	}, nil
}
