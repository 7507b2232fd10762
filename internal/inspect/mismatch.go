package inspect

import (
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
)

// ExpectedImageAmbiguous marks a mismatch report where no single image holds
// a strict majority across the pods of a deployment, so no value can be
// called the expected one.
const ExpectedImageAmbiguous = "ambiguous"

// PodImage pairs a pod with the image it runs for one container name.
type PodImage struct {
	PodName string `json:"podName"`
	Image   string `json:"image"`
}

// Report describes one container of one deployment whose pods disagree on
// the image they run.
type Report struct {
	Deployment    string     `json:"deployment"`
	Namespace     string     `json:"namespace"`
	Container     string     `json:"container"`
	ExpectedImage string     `json:"expectedImage"`
	OffendingPods []PodImage `json:"offendingPods"`
}

// Issue renders the report as a plain-English diagnostic line.
func (r Report) Issue() string {
	pods := make([]string, 0, len(r.OffendingPods))
	for _, p := range r.OffendingPods {
		pods = append(pods, fmt.Sprintf("%s (%s)", p.PodName, p.Image))
	}
	if r.ExpectedImage == ExpectedImageAmbiguous {
		return fmt.Sprintf("Namespace %q: deployment %q container %q runs divergent images with no majority: %s",
			r.Namespace, r.Deployment, r.Container, strings.Join(pods, ", "))
	}
	return fmt.Sprintf("Namespace %q: deployment %q container %q expects image %q but found: %s",
		r.Namespace, r.Deployment, r.Container, r.ExpectedImage, strings.Join(pods, ", "))
}

// DetectMismatches groups the given pods by owning deployment and flags
// every container name whose pods run more than one distinct image
// reference. A rollout that is stuck or incomplete shows up here.
//
// The expected image for a container is the one run by a strict majority of
// its pods. When no strict majority exists, ExpectedImage is set to
// ExpectedImageAmbiguous and every pod of the divergent container is listed.
// Output ordering is stable across runs regardless of input order.
func DetectMismatches(namespace string, pods []corev1.Pod) []Report {
	// deployment -> container -> pod -> image
	observed := make(map[string]map[string]map[string]string)

	for i := range pods {
		pod := &pods[i]
		deployment, ok := owningDeployment(pod)
		if !ok {
			continue
		}
		containers := observed[deployment]
		if containers == nil {
			containers = make(map[string]map[string]string)
			observed[deployment] = containers
		}
		for _, c := range pod.Spec.Containers {
			images := containers[c.Name]
			if images == nil {
				images = make(map[string]string)
				containers[c.Name] = images
			}
			images[pod.Name] = c.Image
		}
	}

	var reports []Report
	for deployment, containers := range observed {
		for container, podImages := range containers {
			if report, ok := buildReport(namespace, deployment, container, podImages); ok {
				reports = append(reports, report)
			}
		}
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Deployment != reports[j].Deployment {
			return reports[i].Deployment < reports[j].Deployment
		}
		return reports[i].Container < reports[j].Container
	})
	return reports
}

// buildReport decides whether the observed pod->image mapping of a single
// container constitutes a mismatch, and if so which pods are offending.
func buildReport(namespace, deployment, container string, podImages map[string]string) (Report, bool) {
	counts := make(map[string]int)
	for _, image := range podImages {
		counts[image]++
	}
	if len(counts) <= 1 {
		return Report{}, false
	}

	expected, hasMajority := majorityImage(counts, len(podImages))

	report := Report{
		Deployment: deployment,
		Namespace:  namespace,
		Container:  container,
	}
	if hasMajority {
		report.ExpectedImage = expected
	} else {
		report.ExpectedImage = ExpectedImageAmbiguous
	}

	for pod, image := range podImages {
		if hasMajority && image == expected {
			continue
		}
		report.OffendingPods = append(report.OffendingPods, PodImage{PodName: pod, Image: image})
	}
	sort.Slice(report.OffendingPods, func(i, j int) bool {
		return report.OffendingPods[i].PodName < report.OffendingPods[j].PodName
	})
	return report, true
}

// majorityImage returns the image run by a strict majority of pods, if any.
func majorityImage(counts map[string]int, total int) (string, bool) {
	for image, n := range counts {
		if n*2 > total {
			return image, true
		}
	}
	return "", false
}

// owningDeployment derives the deployment name owning a pod from its
// ReplicaSet owner reference. ReplicaSet names carry a trailing pod-template
// hash segment that is stripped off.
func owningDeployment(pod *corev1.Pod) (string, bool) {
	for _, owner := range pod.OwnerReferences {
		if owner.Kind != "ReplicaSet" {
			continue
		}
		idx := strings.LastIndex(owner.Name, "-")
		if idx <= 0 {
			continue
		}
		return owner.Name[:idx], true
	}
	return "", false
}
