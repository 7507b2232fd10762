package inspect

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// newPod builds a pod owned by the ReplicaSet of the given deployment, with
// one container per name->image pair.
func newPod(name, deployment string, containers map[string]string) corev1.Pod {
	pod := corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
			OwnerReferences: []metav1.OwnerReference{
				{Kind: "ReplicaSet", Name: deployment + "-7d4b9c8f5"},
			},
		},
	}
	for containerName, image := range containers {
		pod.Spec.Containers = append(pod.Spec.Containers, corev1.Container{
			Name:  containerName,
			Image: image,
		})
	}
	return pod
}

func TestDetectMismatchesSingleOffender(t *testing.T) {
	pods := []corev1.Pod{
		newPod("api-7d4b9c8f5-a", "api", map[string]string{"app": "registry.example.com/app:1.0"}),
		newPod("api-7d4b9c8f5-b", "api", map[string]string{"app": "registry.example.com/app:1.0"}),
		newPod("api-7d4b9c8f5-c", "api", map[string]string{"app": "registry.example.com/app:1.1"}),
	}

	reports := DetectMismatches("prod", pods)
	require.Len(t, reports, 1)

	report := reports[0]
	assert.Equal(t, "api", report.Deployment)
	assert.Equal(t, "prod", report.Namespace)
	assert.Equal(t, "app", report.Container)
	assert.Equal(t, "registry.example.com/app:1.0", report.ExpectedImage)
	require.Len(t, report.OffendingPods, 1)
	assert.Equal(t, "api-7d4b9c8f5-c", report.OffendingPods[0].PodName)
	assert.Equal(t, "registry.example.com/app:1.1", report.OffendingPods[0].Image)
}

func TestDetectMismatchesNoDivergence(t *testing.T) {
	pods := []corev1.Pod{
		newPod("api-x-a", "api", map[string]string{"app": "app:2.0"}),
		newPod("api-x-b", "api", map[string]string{"app": "app:2.0"}),
		newPod("worker-y-a", "worker", map[string]string{"app": "worker:1.4"}),
	}

	assert.Empty(t, DetectMismatches("prod", pods))
}

func TestDetectMismatchesAmbiguousTie(t *testing.T) {
	pods := []corev1.Pod{
		newPod("api-x-a", "api", map[string]string{"app": "app:1.0"}),
		newPod("api-x-b", "api", map[string]string{"app": "app:1.1"}),
	}

	reports := DetectMismatches("prod", pods)
	require.Len(t, reports, 1)

	report := reports[0]
	assert.Equal(t, ExpectedImageAmbiguous, report.ExpectedImage)
	// With no majority every divergent pod is listed.
	require.Len(t, report.OffendingPods, 2)
	assert.Equal(t, "api-x-a", report.OffendingPods[0].PodName)
	assert.Equal(t, "api-x-b", report.OffendingPods[1].PodName)
	assert.Contains(t, report.Issue(), "no majority")
}

func TestDetectMismatchesPerContainerGrouping(t *testing.T) {
	// Only the sidecar diverges; the app container is uniform.
	pods := []corev1.Pod{
		newPod("api-x-a", "api", map[string]string{"app": "app:1.0", "sidecar": "proxy:3.0"}),
		newPod("api-x-b", "api", map[string]string{"app": "app:1.0", "sidecar": "proxy:3.0"}),
		newPod("api-x-c", "api", map[string]string{"app": "app:1.0", "sidecar": "proxy:3.1"}),
	}

	reports := DetectMismatches("prod", pods)
	require.Len(t, reports, 1)
	assert.Equal(t, "sidecar", reports[0].Container)
	assert.Equal(t, "proxy:3.0", reports[0].ExpectedImage)
}

func TestDetectMismatchesIgnoresUnownedPods(t *testing.T) {
	bare := corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "standalone"}}
	bare.Spec.Containers = []corev1.Container{{Name: "app", Image: "app:9.9"}}

	jobOwned := corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:            "batch-abc",
			OwnerReferences: []metav1.OwnerReference{{Kind: "Job", Name: "batch"}},
		},
	}
	jobOwned.Spec.Containers = []corev1.Container{{Name: "app", Image: "app:0.1"}}

	assert.Empty(t, DetectMismatches("prod", []corev1.Pod{bare, jobOwned}))
}

func TestDetectMismatchesDeterministicAcrossInputOrder(t *testing.T) {
	pods := []corev1.Pod{
		newPod("api-x-a", "api", map[string]string{"app": "app:1.0"}),
		newPod("api-x-b", "api", map[string]string{"app": "app:1.0"}),
		newPod("api-x-c", "api", map[string]string{"app": "app:1.1"}),
		newPod("worker-y-a", "worker", map[string]string{"main": "worker:2.0", "sidecar": "proxy:1.0"}),
		newPod("worker-y-b", "worker", map[string]string{"main": "worker:2.1", "sidecar": "proxy:1.1"}),
	}

	baseline := DetectMismatches("prod", pods)
	require.NotEmpty(t, baseline)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]corev1.Pod, len(pods))
		copy(shuffled, pods)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, baseline, DetectMismatches("prod", shuffled))
	}

	// Reports sorted by deployment then container.
	require.Len(t, baseline, 3)
	assert.Equal(t, "api", baseline[0].Deployment)
	assert.Equal(t, "worker", baseline[1].Deployment)
	assert.Equal(t, "main", baseline[1].Container)
	assert.Equal(t, "worker", baseline[2].Deployment)
	assert.Equal(t, "sidecar", baseline[2].Container)
}

func TestReportIssueText(t *testing.T) {
	report := Report{
		Deployment:    "api",
		Namespace:     "prod",
		Container:     "app",
		ExpectedImage: "app:1.0",
		OffendingPods: []PodImage{{PodName: "api-x-c", Image: "app:1.1"}},
	}

	issue := report.Issue()
	assert.Contains(t, issue, `deployment "api"`)
	assert.Contains(t, issue, `expects image "app:1.0"`)
	assert.Contains(t, issue, "api-x-c (app:1.1)")
}
