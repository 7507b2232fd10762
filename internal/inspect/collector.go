// Package inspect builds condensed views of cluster workload state: listing
// summaries for deployments, pods and services, and detection of image
// version mismatches across the pods of a deployment.
package inspect

import (
	"context"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/clusterscope/mcp-cluster-info/internal/k8s"
)

// DeploymentInfo is the condensed view of a deployment.
type DeploymentInfo struct {
	Name              string   `json:"name"`
	Replicas          int32    `json:"replicas"`
	AvailableReplicas int32    `json:"availableReplicas"`
	Images            []string `json:"images"`
}

// PodInfo is the condensed view of a pod.
type PodInfo struct {
	Name         string   `json:"name"`
	Phase        string   `json:"phase"`
	HostIP       string   `json:"hostIP,omitempty"`
	PodIP        string   `json:"podIP,omitempty"`
	RestartCount int32    `json:"restartCount"`
	Images       []string `json:"images"`
}

// ServicePortInfo is one exposed port of a service.
type ServicePortInfo struct {
	Port       int32  `json:"port"`
	TargetPort string `json:"targetPort"`
}

// ServiceInfo is the condensed view of a service.
type ServiceInfo struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	ClusterIP string            `json:"clusterIP,omitempty"`
	Ports     []ServicePortInfo `json:"ports"`
}

// NamespaceInfo aggregates the workload state of a single namespace.
// Errors records per-resource-kind failures (for example an RBAC denial on
// pods) so one forbidden kind does not fail the whole query.
type NamespaceInfo struct {
	Deployments   []DeploymentInfo  `json:"deployments"`
	Pods          []PodInfo         `json:"pods"`
	Services      []ServiceInfo     `json:"services"`
	VersionIssues []Report          `json:"versionIssues"`
	Errors        map[string]string `json:"errors,omitempty"`
}

// ClusterInfo is the full cluster (or single namespace) overview returned by
// the cluster-info operation, with a plain-English mismatch summary.
type ClusterInfo struct {
	Summary    string                   `json:"summary"`
	Namespaces map[string]NamespaceInfo `json:"namespaces"`
}

// NoMismatchSummary is the summary text when no deployment shows divergent
// pod images.
const NoMismatchSummary = "No version mismatches detected across deployments."

// Collector runs read-only queries against an injected cluster client and
// shapes the results. It holds no state between calls.
type Collector struct {
	client k8s.Client
}

// NewCollector creates a Collector backed by the given client.
func NewCollector(client k8s.Client) *Collector {
	return &Collector{client: client}
}

// targetNamespaces expands an optional namespace argument: empty means every
// namespace in the cluster.
func (c *Collector) targetNamespaces(ctx context.Context, namespace string) ([]string, error) {
	if namespace != "" {
		return []string{namespace}, nil
	}
	return c.client.ListNamespaces(ctx)
}

// ClusterInfo collects deployments, pods, services and version mismatch
// reports for the namespace, or for every namespace when namespace is empty.
// Failures of individual resource kinds are recorded in NamespaceInfo.Errors
// rather than aborting the query; only a failed namespace listing is fatal.
func (c *Collector) ClusterInfo(ctx context.Context, namespace string) (*ClusterInfo, error) {
	namespaces, err := c.targetNamespaces(ctx, namespace)
	if err != nil {
		return nil, err
	}

	info := &ClusterInfo{Namespaces: make(map[string]NamespaceInfo, len(namespaces))}
	var summaries []string

	for _, ns := range namespaces {
		nsInfo := NamespaceInfo{
			Deployments:   []DeploymentInfo{},
			Pods:          []PodInfo{},
			Services:      []ServiceInfo{},
			VersionIssues: []Report{},
		}
		recordErr := func(kind string, err error) {
			if nsInfo.Errors == nil {
				nsInfo.Errors = make(map[string]string)
			}
			nsInfo.Errors[kind] = err.Error()
		}

		if deployments, err := c.client.ListDeployments(ctx, ns); err != nil {
			recordErr("deployments", err)
		} else {
			for i := range deployments {
				nsInfo.Deployments = append(nsInfo.Deployments, deploymentInfo(&deployments[i]))
			}
		}

		if pods, err := c.client.ListPods(ctx, ns); err != nil {
			recordErr("pods", err)
		} else {
			for i := range pods {
				nsInfo.Pods = append(nsInfo.Pods, podInfo(&pods[i]))
			}
			nsInfo.VersionIssues = DetectMismatches(ns, pods)
			for _, report := range nsInfo.VersionIssues {
				summaries = append(summaries, report.Issue())
			}
		}

		if services, err := c.client.ListServices(ctx, ns); err != nil {
			recordErr("services", err)
		} else {
			for i := range services {
				nsInfo.Services = append(nsInfo.Services, serviceInfo(&services[i]))
			}
		}

		info.Namespaces[ns] = nsInfo
	}

	if len(summaries) == 0 {
		info.Summary = NoMismatchSummary
	} else {
		info.Summary = strings.Join(summaries, "\n")
	}
	return info, nil
}

// Deployments lists condensed deployment info per namespace.
func (c *Collector) Deployments(ctx context.Context, namespace string) (map[string][]DeploymentInfo, error) {
	namespaces, err := c.targetNamespaces(ctx, namespace)
	if err != nil {
		return nil, err
	}
	results := make(map[string][]DeploymentInfo, len(namespaces))
	for _, ns := range namespaces {
		deployments, err := c.client.ListDeployments(ctx, ns)
		if err != nil {
			return nil, err
		}
		infos := make([]DeploymentInfo, 0, len(deployments))
		for i := range deployments {
			infos = append(infos, deploymentInfo(&deployments[i]))
		}
		results[ns] = infos
	}
	return results, nil
}

// Pods lists condensed pod info per namespace.
func (c *Collector) Pods(ctx context.Context, namespace string) (map[string][]PodInfo, error) {
	namespaces, err := c.targetNamespaces(ctx, namespace)
	if err != nil {
		return nil, err
	}
	results := make(map[string][]PodInfo, len(namespaces))
	for _, ns := range namespaces {
		pods, err := c.client.ListPods(ctx, ns)
		if err != nil {
			return nil, err
		}
		infos := make([]PodInfo, 0, len(pods))
		for i := range pods {
			infos = append(infos, podInfo(&pods[i]))
		}
		results[ns] = infos
	}
	return results, nil
}

// Services lists condensed service info per namespace.
func (c *Collector) Services(ctx context.Context, namespace string) (map[string][]ServiceInfo, error) {
	namespaces, err := c.targetNamespaces(ctx, namespace)
	if err != nil {
		return nil, err
	}
	results := make(map[string][]ServiceInfo, len(namespaces))
	for _, ns := range namespaces {
		services, err := c.client.ListServices(ctx, ns)
		if err != nil {
			return nil, err
		}
		infos := make([]ServiceInfo, 0, len(services))
		for i := range services {
			infos = append(infos, serviceInfo(&services[i]))
		}
		results[ns] = infos
	}
	return results, nil
}

func deploymentInfo(dep *appsv1.Deployment) DeploymentInfo {
	info := DeploymentInfo{
		Name:              dep.Name,
		AvailableReplicas: dep.Status.AvailableReplicas,
		Images:            []string{},
	}
	if dep.Spec.Replicas != nil {
		info.Replicas = *dep.Spec.Replicas
	}
	for _, c := range dep.Spec.Template.Spec.Containers {
		info.Images = append(info.Images, c.Image)
	}
	return info
}

func podInfo(pod *corev1.Pod) PodInfo {
	info := PodInfo{
		Name:   pod.Name,
		Phase:  string(pod.Status.Phase),
		HostIP: pod.Status.HostIP,
		PodIP:  pod.Status.PodIP,
		Images: []string{},
	}
	for _, c := range pod.Spec.Containers {
		info.Images = append(info.Images, c.Image)
	}
	for _, cs := range pod.Status.ContainerStatuses {
		info.RestartCount += cs.RestartCount
	}
	return info
}

func serviceInfo(svc *corev1.Service) ServiceInfo {
	info := ServiceInfo{
		Name:      svc.Name,
		Type:      string(svc.Spec.Type),
		ClusterIP: svc.Spec.ClusterIP,
		Ports:     []ServicePortInfo{},
	}
	for _, p := range svc.Spec.Ports {
		info.Ports = append(info.Ports, ServicePortInfo{
			Port:       p.Port,
			TargetPort: p.TargetPort.String(),
		})
	}
	return info
}
