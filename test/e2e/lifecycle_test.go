//go:build e2e

package e2e

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/gkepool/internal/agent"
	"github.com/imamik/gkepool/internal/config"
	"github.com/imamik/gkepool/internal/nodepool"
	"github.com/imamik/gkepool/internal/platform/gke"
	"github.com/imamik/gkepool/internal/platform/gke/gketest"
	"github.com/imamik/gkepool/internal/util/ptr"
)

var _ = Describe("Node pool lifecycle", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		srv    *gketest.Server
		a      *agent.Agent
		spec   nodepool.Spec
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		DeferCleanup(cancel)

		srv = gketest.NewServer(GinkgoT())
		timeouts := &config.Timeouts{
			PollInterval:      time.Millisecond,
			Operation:         10 * time.Second,
			Request:           5 * time.Second,
			RetryMaxAttempts:  2,
			RetryInitialDelay: time.Millisecond,
		}
		client := gke.NewClient(gke.WithBaseURL(srv.BaseURL()), gke.WithTimeouts(timeouts))
		a = agent.New(client, agent.WithTimeouts(timeouts))

		spec = nodepool.SpecFromManifest(config.NodePool{
			Name:             "workers",
			Project:          "p",
			Location:         "us-central1",
			Cluster:          "c",
			Ensure:           config.EnsurePresent,
			InitialNodeCount: ptr.Int64(2),
			Config:           map[string]any{"machine_type": "e2-standard-4"},
			Autoscaling:      map[string]any{"enabled": true, "min_node_count": 1, "max_node_count": 3},
		})
	})

	apply := func(specs ...nodepool.Spec) agent.Result {
		results, err := a.Apply(ctx, specs)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))
		return results[0]
	}

	It("creates, converges, updates and deletes a node pool", func() {
		By("creating the missing pool")
		Expect(apply(spec).Action).To(Equal(agent.ActionCreate))
		stored := srv.Pool("p", "us-central1", "c", "workers")
		Expect(stored).NotTo(BeNil())
		Expect(stored).To(HaveKeyWithValue("initialNodeCount", BeNumerically("==", 2)))

		By("leaving a converged pool alone")
		srv.Reset()
		Expect(apply(spec).Action).To(Equal(agent.ActionNone))
		for _, r := range srv.Requests() {
			Expect(r.Method).To(Equal(http.MethodGet))
		}

		By("updating drifted autoscaling")
		spec.Autoscaling = nodepool.SpecFromManifest(config.NodePool{
			Autoscaling: map[string]any{"enabled": true, "min_node_count": 1, "max_node_count": 6},
		}).Autoscaling
		res := apply(spec)
		Expect(res.Action).To(Equal(agent.ActionUpdate))
		Expect(res.Changes).To(HaveLen(1))
		Expect(res.Changes[0].Field).To(Equal(nodepool.FieldAutoscaling))
		Expect(srv.Pool("p", "us-central1", "c", "workers")).To(
			HaveKeyWithValue("autoscaling", HaveKeyWithValue("maxNodeCount", BeNumerically("==", 6))))

		By("deleting the retired pool")
		spec.Ensure = nodepool.EnsureAbsent
		Expect(apply(spec).Action).To(Equal(agent.ActionDelete))
		Expect(srv.Pool("p", "us-central1", "c", "workers")).To(BeNil())

		By("treating an absent pool as converged")
		Expect(apply(spec).Action).To(Equal(agent.ActionNone))
	})

	It("retries a failed operation and reports the embedded errors", func() {
		srv.FailWith = []string{"ZONE_RESOURCE_POOL_EXHAUSTED"}

		results, err := a.Apply(ctx, []nodepool.Spec{spec})
		Expect(err).To(MatchError(ContainSubstring("ZONE_RESOURCE_POOL_EXHAUSTED")))
		Expect(results[0].Err).To(HaveOccurred())
		Expect(srv.Count(http.MethodPost, gketest.ClusterPath("p", "us-central1", "c")+"/nodePools")).To(Equal(3))
		Expect(srv.Pool("p", "us-central1", "c", "workers")).To(BeNil())
	})

	It("plans without mutating", func() {
		results, err := a.Plan(ctx, []nodepool.Spec{spec})
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Action).To(Equal(agent.ActionCreate))
		Expect(srv.Pool("p", "us-central1", "c", "workers")).To(BeNil())
	})

	It("keeps a watched pool converged after out of band drift", func() {
		watchCtx, stop := context.WithCancel(ctx)
		defer stop()
		go a.Watch(watchCtx, 20*time.Millisecond, func() ([]nodepool.Spec, error) {
			return []nodepool.Spec{spec}, nil
		})

		Eventually(func() map[string]any {
			return srv.Pool("p", "us-central1", "c", "workers")
		}).WithTimeout(5 * time.Second).ShouldNot(BeNil())

		srv.AddPool("p", "us-central1", "c", map[string]any{
			"name":        "workers",
			"config":      map[string]any{"machineType": "e2-standard-4"},
			"autoscaling": map[string]any{"enabled": false},
		})

		Eventually(func() int {
			return srv.Count(http.MethodPut, gketest.PoolPath("p", "us-central1", "c", "workers"))
		}).WithTimeout(5 * time.Second).Should(BeNumerically(">=", 1))
		Eventually(func() map[string]any {
			return srv.Pool("p", "us-central1", "c", "workers")
		}).WithTimeout(5 * time.Second).Should(
			HaveKeyWithValue("autoscaling", HaveKeyWithValue("enabled", BeTrue())))
	})
})
