package session_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/mockserver"
	"github.com/killallgit/entropy/pkg/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRunner(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Runner Suite")
}

var _ = Describe("Runner", func() {
	var (
		mock    *mockserver.Server
		server  *httptest.Server
		runner  *session.Runner
		dataset string
		opts    []mockserver.Option
	)

	JustBeforeEach(func() {
		mock = mockserver.New(opts...)
		server = httptest.NewServer(mock.Handler())
		client := api.NewClient(server.URL + mockserver.BasePath)
		runner = session.NewRunner(session.New(nil), client)

		dataset = filepath.Join(GinkgoT().TempDir(), "orders.csv")
		Expect(os.WriteFile(dataset, []byte("id,order_date\n1,\n"), 0644)).To(Succeed())
	})

	AfterEach(func() {
		server.Close()
		opts = nil
	})

	It("should reject prompts before an upload without a request", func() {
		_, err := runner.Run(context.Background(), "clean")

		Expect(err).To(MatchError(session.ErrNoUpload))
		Expect(mock.Runs()).To(BeEmpty())
	})

	It("should upload, run and record the whole exchange", func() {
		upload, err := runner.Upload(context.Background(), dataset)
		Expect(err).ToNot(HaveOccurred())
		Expect(upload.Filename).To(Equal("orders.csv"))

		result, err := runner.Run(context.Background(), "clean the dates")
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Outcome).To(Equal(session.OutcomeCompleted))
		Expect(result.Answer).To(ContainSubstring("Cleaning summary"))

		s := runner.Session()
		events := s.Events()
		Expect(events[0].Status).To(Equal(api.StatusUserMessage))
		Expect(events[len(events)-1].Status).To(Equal(api.StatusComplete))
		Expect(result.Events).To(Equal(len(events) - 1))
		Expect(s.Busy()).To(BeFalse())

		messages := s.Messages()
		Expect(messages).To(HaveLen(2))
		Expect(messages[1].Role).To(Equal(api.RoleAssistant))

		runs := mock.Runs()
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].FileURI).To(Equal(upload.URI))
		Expect(runs[0].Messages).To(Equal([]api.Message{api.NewUserMessage("clean the dates")}))
	})

	It("should send the history with follow-up prompts", func() {
		_, err := runner.Upload(context.Background(), dataset)
		Expect(err).ToNot(HaveOccurred())

		_, err = runner.Run(context.Background(), "inspect")
		Expect(err).ToNot(HaveOccurred())
		_, err = runner.Run(context.Background(), "now clean")
		Expect(err).ToNot(HaveOccurred())

		runs := mock.Runs()
		Expect(runs).To(HaveLen(2))
		Expect(runs[1].Messages).To(HaveLen(3))
		Expect(runs[1].Messages[1].Role).To(Equal(api.RoleAssistant))
	})

	It("should clear the session when a new file is uploaded", func() {
		_, err := runner.Upload(context.Background(), dataset)
		Expect(err).ToNot(HaveOccurred())
		_, err = runner.Run(context.Background(), "inspect")
		Expect(err).ToNot(HaveOccurred())

		_, err = runner.Upload(context.Background(), dataset)
		Expect(err).ToNot(HaveOccurred())

		Expect(runner.Session().Events()).To(BeEmpty())
		Expect(runner.Session().Messages()).To(BeEmpty())
	})

	It("should cancel a run stopped as soon as it is submitted", func() {
		_, err := runner.Upload(context.Background(), dataset)
		Expect(err).ToNot(HaveOccurred())

		stopped := false
		unsubscribe := runner.Session().Subscribe(func(c session.Change) {
			if c.Kind == session.ChangeSubmitted {
				stopped = runner.Stop()
			}
		})
		defer unsubscribe()

		result, err := runner.Run(context.Background(), "clean")

		Expect(err).ToNot(HaveOccurred())
		Expect(stopped).To(BeTrue())
		Expect(result.Outcome).To(Equal(session.OutcomeCancelled))
		Expect(result.Events).To(BeZero())
		Expect(runner.Session().Busy()).To(BeFalse())
		Expect(runner.Session().Events()).To(HaveLen(1))
		Expect(runner.Stop()).To(BeFalse())
	})

	Context("with a failing upload endpoint", func() {
		BeforeEach(func() {
			opts = []mockserver.Option{mockserver.WithUploadFailure(500, "bucket unavailable")}
		})

		It("should leave the session untouched", func() {
			_, err := runner.Upload(context.Background(), dataset)

			Expect(err).To(MatchError(api.ErrUploadFailed))
			Expect(runner.Session().Upload()).To(BeNil())
		})
	})

	Context("with an agent error", func() {
		BeforeEach(func() {
			opts = []mockserver.Option{mockserver.WithScript(mockserver.Events(
				api.AgentEvent{Status: api.StatusThinking, Message: "..."},
				api.AgentEvent{Status: api.StatusError, Message: "Reached maximum reasoning iterations."},
			))}
		})

		It("should report a failed outcome", func() {
			_, err := runner.Upload(context.Background(), dataset)
			Expect(err).ToNot(HaveOccurred())

			result, err := runner.Run(context.Background(), "clean")

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Outcome).To(Equal(session.OutcomeFailed))
			Expect(session.IsAgentError(result.Err)).To(BeTrue())
			Expect(runner.Session().Busy()).To(BeFalse())
			Expect(runner.Session().Messages()).To(HaveLen(1))
		})
	})

	Context("with a slow agent", func() {
		BeforeEach(func() {
			opts = []mockserver.Option{mockserver.WithDelay(time.Hour)}
		})

		It("should refuse a second run and stop cleanly", func() {
			_, err := runner.Upload(context.Background(), dataset)
			Expect(err).ToNot(HaveOccurred())

			done := make(chan session.RunResult, 1)
			go func() {
				defer GinkgoRecover()
				result, err := runner.Run(context.Background(), "clean")
				Expect(err).ToNot(HaveOccurred())
				done <- result
			}()

			Eventually(func() int { return len(runner.Session().Events()) }).Should(BeNumerically(">=", 2))

			_, err = runner.Run(context.Background(), "again")
			Expect(err).To(MatchError(session.ErrBusy))
			_, err = runner.Upload(context.Background(), dataset)
			Expect(err).To(MatchError(session.ErrBusy))

			Expect(runner.Stop()).To(BeTrue())

			var result session.RunResult
			Eventually(done, 5*time.Second).Should(Receive(&result))
			Expect(result.Outcome).To(Equal(session.OutcomeCancelled))
			Expect(mock.Runs()).To(HaveLen(1))

			events := runner.Session().Events()
			Expect(events[len(events)-1].Status).ToNot(Equal(api.StatusError))
			Expect(runner.Session().Busy()).To(BeFalse())
			Expect(runner.Stop()).To(BeFalse())
		})
	})
})
