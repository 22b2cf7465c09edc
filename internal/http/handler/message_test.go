package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"moodline.app/pulse/internal/http/handler"
	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/store"
)

var _ = Describe("MessageHandler", func() {
	var (
		router   *gin.Engine
		messages *mockMessageService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		messages = &mockMessageService{}
		h := handler.NewMessageHandler(messages)
		router.GET("/messages/:id/analysis", h.GetAnalysis)
	})

	It("returns 200 with the verdict", func() {
		messages.getAnalysisFn = func(_ context.Context, messageID int64) (*model.MessageAnalysis, error) {
			return &model.MessageAnalysis{
				ID:             1,
				MessageID:      messageID,
				SentimentLabel: "NEGATIVE",
				SentimentScore: 0.7,
				Polarity:       -0.4,
				Scores:         json.RawMessage(`{"negative":0.7}`),
			}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/messages/100/analysis", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["message_id"]).To(Equal("100"))
		Expect(resp["sentiment_label"]).To(Equal("NEGATIVE"))
		Expect(resp["polarity"]).To(Equal(-0.4))
	})

	It("returns 404 when no verdict exists", func() {
		messages.getAnalysisFn = func(_ context.Context, _ int64) (*model.MessageAnalysis, error) {
			return nil, store.ErrNotFound
		}

		req := httptest.NewRequest(http.MethodGet, "/messages/100/analysis", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 400 on a non-numeric id", func() {
		req := httptest.NewRequest(http.MethodGet, "/messages/abc/analysis", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 500 when the lookup fails", func() {
		messages.getAnalysisFn = func(_ context.Context, _ int64) (*model.MessageAnalysis, error) {
			return nil, errors.New("boom")
		}

		req := httptest.NewRequest(http.MethodGet, "/messages/100/analysis", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
