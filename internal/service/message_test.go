package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/service"
	"moodline.app/pulse/internal/store"
)

var _ = Describe("MessageService", func() {
	var (
		svc      service.MessageService
		users    *mockUserStore
		messages *mockMessageStore
		analyses *mockAnalysisStore
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserStore{}
		messages = &mockMessageStore{}
		analyses = &mockAnalysisStore{}

		svc = service.NewMessageService(users, messages, analyses)
	})

	Describe("GetAnalysis", func() {
		It("should return the stored verdict", func() {
			analyses.getByMessageIDFn = func(_ context.Context, messageID int64) (*model.MessageAnalysis, error) {
				return &model.MessageAnalysis{MessageID: messageID, SentimentLabel: "POSITIVE"}, nil
			}

			analysis, err := svc.GetAnalysis(ctx, 101)

			Expect(err).NotTo(HaveOccurred())
			Expect(analysis.MessageID).To(Equal(int64(101)))
			Expect(analysis.SentimentLabel).To(Equal("POSITIVE"))
		})

		Context("when the message does not exist", func() {
			It("should fail before touching the analysis store", func() {
				messages.getByIDFn = func(_ context.Context, _ int64) (*model.Message, error) {
					return nil, store.ErrNotFound
				}
				analysisLookups := 0
				analyses.getByMessageIDFn = func(_ context.Context, _ int64) (*model.MessageAnalysis, error) {
					analysisLookups++
					return nil, nil
				}

				_, err := svc.GetAnalysis(ctx, 101)

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("loading message"))
				Expect(analysisLookups).To(BeZero())
			})
		})

		Context("when the message has no verdict yet", func() {
			It("should pass through not found", func() {
				analyses.getByMessageIDFn = func(_ context.Context, _ int64) (*model.MessageAnalysis, error) {
					return nil, store.ErrNotFound
				}

				_, err := svc.GetAnalysis(ctx, 101)

				Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
			})
		})
	})

	Describe("ListWithAnalysis", func() {
		It("should return the user's recent messages with verdicts", func() {
			messages.listRecentWithAnalysisFn = func(_ context.Context, _ int64, _ int32) ([]model.MessageWithAnalysis, error) {
				return []model.MessageWithAnalysis{
					{Message: model.Message{ID: 2}, Analysis: &model.MessageAnalysis{MessageID: 2}},
					{Message: model.Message{ID: 1}},
				}, nil
			}

			rows, err := svc.ListWithAnalysis(ctx, 7, 50)

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Analysis).NotTo(BeNil())
			Expect(rows[1].Analysis).To(BeNil())
		})

		It("should apply the default limit when none is given", func() {
			var capturedLimit int32
			messages.listRecentWithAnalysisFn = func(_ context.Context, _ int64, limit int32) ([]model.MessageWithAnalysis, error) {
				capturedLimit = limit
				return nil, nil
			}

			_, err := svc.ListWithAnalysis(ctx, 7, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(capturedLimit).To(Equal(int32(100)))
		})

		Context("when the user does not exist", func() {
			It("should fail", func() {
				users.getByIDFn = func(_ context.Context, _ int64) (*model.User, error) {
					return nil, store.ErrNotFound
				}

				_, err := svc.ListWithAnalysis(ctx, 7, 0)

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("loading user"))
			})
		})
	})
})
