//go:build integration

package integration

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
	"github.com/eliteGoblin/focusd/app_block/internal/infra"
	"github.com/eliteGoblin/focusd/app_block/internal/policy"
	"github.com/eliteGoblin/focusd/app_block/internal/usecase"
	"github.com/eliteGoblin/focusd/app_block/test/fixtures"
)

const gamePolicy = `
app_block_action: close
block_terminal: true
bundle_ids:
  - com.example.game
`

var _ = Describe("Frontmost blocker", func() {
	var (
		tmpDir     string
		game       *fixtures.FakeAppBundle
		inspector  *fixtures.StaticInspector
		controller *fixtures.RecordingController
		blocker    *usecase.FrontmostBlocker
		ctx        context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		tmpDir, err = os.MkdirTemp("", "appblock-integration-*")
		Expect(err).NotTo(HaveOccurred())

		game = fixtures.NewFakeAppBundle(tmpDir, "Game", "com.example.game")
		Expect(game.Create()).To(Succeed())

		rules, err := policy.Parse([]byte(gamePolicy), policy.NewRegistry())
		Expect(err).NotTo(HaveOccurred())

		inspector = fixtures.NewStaticInspector(nil)
		controller = fixtures.NewRecordingController()
		executor := usecase.NewExecutor(controller, controller, zap.NewNop())
		blocker = usecase.NewFrontmostBlocker(
			inspector,
			infra.NewPlistBundleResolverWithRunner(nil),
			policy.NewHolder(rules),
			executor,
			zap.NewNop(),
		)
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Context("when the blocked app is frontmost", func() {
		It("should terminate it exactly once", func() {
			h := domain.WindowHandle{PID: 501}
			inspector.Set(&domain.WindowSnapshot{Handle: h, ProcessName: "Game", BundleID: "com.example.game", Visible: true}, nil)

			_, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(controller.CallsOf("terminate")).To(Equal([]fixtures.Call{{Op: "terminate", Handle: h}}))
		})
	})

	Context("when only the bundle path is known", func() {
		It("should read the identifier from Info.plist", func() {
			inspector.Set(&domain.WindowSnapshot{
				Handle:      domain.WindowHandle{PID: 502},
				ProcessName: "Game",
				BundlePath:  game.Path(),
				Visible:     true,
			}, nil)

			res, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Snapshot.BundleID).To(Equal("com.example.game"))
			Expect(controller.CallsOf("terminate")).To(HaveLen(1))
		})

		It("should skip only the bundle rule when Info.plist is gone", func() {
			Expect(game.RemovePlist()).To(Succeed())
			inspector.Set(&domain.WindowSnapshot{ProcessName: "Game", BundlePath: game.Path(), Visible: true}, nil)

			_, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(controller.CallsOf("terminate")).To(BeEmpty())
			Expect(controller.CallsOf("close_by_name")).To(Equal([]fixtures.Call{{Op: "close_by_name", Name: "Terminal"}}))
		})
	})

	Context("when Terminal is running", func() {
		It("should close it by name", func() {
			controller = fixtures.NewRecordingController("Terminal")
			rules, err := policy.Parse([]byte(gamePolicy), policy.NewRegistry())
			Expect(err).NotTo(HaveOccurred())
			blocker = usecase.NewFrontmostBlocker(inspector, nil, policy.NewHolder(rules),
				usecase.NewExecutor(controller, controller, zap.NewNop()), zap.NewNop())

			res, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Applied).To(Equal(1))
			Expect(controller.IsProcessRunning("Terminal")).To(BeFalse())
		})
	})
})
