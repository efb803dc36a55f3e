//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/app_block/internal/daemon"
	"github.com/eliteGoblin/focusd/app_block/internal/domain"
	"github.com/eliteGoblin/focusd/app_block/internal/infra"
	"github.com/eliteGoblin/focusd/app_block/internal/policy"
	"github.com/eliteGoblin/focusd/app_block/internal/usecase"
	"github.com/eliteGoblin/focusd/app_block/test/fixtures"
)

const steamPolicy = `
app_block_action: close
escape_block_action: minimize_window
block_task_manager: true
block_sign_out_buttons: true
windows:
  - process:
      and:
        - contains: steam
        - not: {exact: steamwebhelper.exe}
`

var _ = Describe("Desktop blocker", func() {
	var (
		tmpDir     string
		policyFile string
		holder     *policy.Holder
		reloader   *daemon.FilePolicyReloader
		inspector  *fixtures.StaticInspector
		controller *fixtures.RecordingController
		auditLog   *infra.EncryptedAuditLog
		blocker    *usecase.DesktopBlocker
		ctx        context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		tmpDir, err = os.MkdirTemp("", "appblock-integration-*")
		Expect(err).NotTo(HaveOccurred())

		policyFile = filepath.Join(tmpDir, "policy.yaml")
		Expect(os.WriteFile(policyFile, []byte(steamPolicy), 0644)).To(Succeed())

		holder = policy.NewHolder(nil)
		reloader = daemon.NewFilePolicyReloader(policyFile, policy.NewRegistry(), holder)
		changed, err := reloader.Reload(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		key, err := infra.EnsureKey(infra.NewFileKeyProvider(tmpDir))
		Expect(err).NotTo(HaveOccurred())
		auditLog, err = infra.NewEncryptedAuditLog(tmpDir, key)
		Expect(err).NotTo(HaveOccurred())

		inspector = fixtures.NewStaticInspector(nil)
		controller = fixtures.NewRecordingController()
		executor := usecase.NewExecutor(controller, controller, zap.NewNop()).WithAuditLog(auditLog)
		blocker = usecase.NewDesktopBlocker(inspector, holder, executor, zap.NewNop())
	})

	AfterEach(func() {
		auditLog.Close()
		os.RemoveAll(tmpDir)
	})

	Context("when a blocked game is in the foreground", func() {
		It("should terminate it exactly once and audit it", func() {
			h := domain.WindowHandle{ID: 0x3a00007, PID: 4242}
			inspector.Set(&domain.WindowSnapshot{Handle: h, ProcessName: "steam.exe", Title: "Steam", Visible: true}, nil)

			res, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Applied).To(Equal(1))

			Expect(controller.Calls()).To(Equal([]fixtures.Call{{Op: "terminate", Handle: h}}))

			entries, err := auditLog.Recent(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Rule).To(Equal(domain.RuleBlockedWindow))
			Expect(entries[0].Process).To(Equal("steam.exe"))
			Expect(entries[0].Applied).To(BeTrue())
		})
	})

	Context("when the excluded helper is in the foreground", func() {
		It("should leave it alone", func() {
			inspector.Set(&domain.WindowSnapshot{ProcessName: "steamwebhelper.exe", Visible: true}, nil)

			res, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Decisions).To(BeEmpty())
			Expect(controller.Calls()).To(BeEmpty())
		})
	})

	Context("when the task manager is hidden", func() {
		It("should not minimize it", func() {
			inspector.Set(&domain.WindowSnapshot{ProcessName: "Taskmgr.exe", Visible: false}, nil)

			res, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Decisions).To(HaveLen(1))
			Expect(controller.Calls()).To(BeEmpty())
		})

		It("should minimize it once it is visible", func() {
			inspector.Set(&domain.WindowSnapshot{ProcessName: "Taskmgr.exe", Visible: true}, nil)

			_, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(controller.CallsOf("minimize")).To(HaveLen(1))
		})
	})

	Context("when the shell context menu is open", func() {
		It("should close the menu window, not the shell", func() {
			inspector.Set(&domain.WindowSnapshot{ProcessName: "explorer.exe", Title: "", Visible: true}, nil)

			_, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(controller.CallsOf("close_window")).To(HaveLen(1))
			Expect(controller.CallsOf("terminate")).To(BeEmpty())
		})
	})

	Context("when nothing is focused", func() {
		It("should do nothing", func() {
			res, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Snapshot).To(BeNil())
			Expect(controller.Calls()).To(BeEmpty())
		})
	})

	Context("when the policy file changes", func() {
		It("should apply the new policy on the next pass", func() {
			inspector.Set(&domain.WindowSnapshot{ProcessName: "dota2.exe", Visible: true}, nil)

			_, err := blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(controller.Calls()).To(BeEmpty())

			Expect(os.WriteFile(policyFile, []byte("presets: [dota2]\n"), 0644)).To(Succeed())
			later := time.Now().Add(time.Minute)
			Expect(os.Chtimes(policyFile, later, later)).To(Succeed())

			changed, err := reloader.Reload(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())

			_, err = blocker.PerformBlock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(controller.CallsOf("terminate")).To(HaveLen(1))
		})
	})

	Context("when driven by the poller", func() {
		It("should keep acting until cancelled", func() {
			inspector.Set(&domain.WindowSnapshot{ProcessName: "steam.exe", Visible: true}, nil)

			pollCtx, cancel := context.WithCancel(ctx)
			config := daemon.PollerConfig{PollInterval: 10 * time.Millisecond, PolicyReloadInterval: time.Hour}
			done := make(chan error, 1)
			go func() { done <- daemon.NewPoller(config, blocker, reloader, zap.NewNop()).Run(pollCtx) }()

			Eventually(func() int { return len(controller.CallsOf("terminate")) }).
				WithTimeout(2 * time.Second).Should(BeNumerically(">=", 3))

			cancel()
			Eventually(done).WithTimeout(time.Second).Should(Receive(MatchError(context.Canceled)))
		})
	})
})
