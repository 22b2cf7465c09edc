package llm_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/openai/openai-go"
	"moodline.app/pulse/common/llm"
)

var _ = Describe("NewChatClient", func() {
	It("requires an API key", func() {
		_, err := llm.NewChatClient(llm.Config{Provider: llm.ProviderOpenAI})
		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown providers", func() {
		_, err := llm.NewChatClient(llm.Config{Provider: "bard", APIKey: "key"})
		Expect(err).To(MatchError(ContainSubstring("unsupported LLM provider")))
	})

	It("defaults to OpenAI with its default model", func() {
		client, err := llm.NewChatClient(llm.Config{APIKey: "key"})
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Model()).To(Equal("gpt-4o-mini"))
	})

	It("builds an Anthropic client with its default model", func() {
		client, err := llm.NewChatClient(llm.Config{Provider: llm.ProviderAnthropic, APIKey: "key"})
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Model()).To(Equal("claude-sonnet-4-5-20250514"))
	})

	It("keeps an explicit model name", func() {
		client, err := llm.NewChatClient(llm.Config{Provider: llm.ProviderOpenAI, APIKey: "key", Model: "gpt-4.1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Model()).To(Equal("gpt-4.1"))
	})
})

var _ = Describe("New", func() {
	It("requires an API key", func() {
		_, err := llm.New(llm.Config{})
		Expect(err).To(HaveOccurred())
	})

	It("defaults the model", func() {
		client, err := llm.New(llm.Config{APIKey: "key"})
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Model()).To(Equal("gpt-4o-mini"))
	})
})

var _ = Describe("GenerateSchema", func() {
	type verdict struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}

	It("reflects a strict object schema with all fields required", func() {
		schema := llm.GenerateSchema[verdict]()
		data, err := json.Marshal(schema)
		Expect(err).NotTo(HaveOccurred())

		var m map[string]any
		Expect(json.Unmarshal(data, &m)).To(Succeed())
		Expect(m["type"]).To(Equal("object"))
		Expect(m["additionalProperties"]).To(Equal(false))
		Expect(m["properties"]).To(HaveKey("label"))
		Expect(m["properties"]).To(HaveKey("confidence"))
		Expect(m["required"]).To(ContainElements("label", "confidence"))
	})
})

var _ = Describe("Temp", func() {
	It("returns a pointer to the given value", func() {
		p := llm.Temp(0.2)
		Expect(p).NotTo(BeNil())
		Expect(*p).To(Equal(0.2))
	})
})

var _ = Describe("IsRetryable", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("treats nil errors as not retryable", func() {
		Expect(llm.IsRetryable(ctx, nil)).To(BeFalse())
	})

	It("does not retry cancelled contexts", func() {
		Expect(llm.IsRetryable(ctx, context.Canceled)).To(BeFalse())
		Expect(llm.IsRetryable(ctx, context.DeadlineExceeded)).To(BeFalse())
	})

	It("retries rate limits", func() {
		Expect(llm.IsRetryable(ctx, &openai.Error{StatusCode: 429})).To(BeTrue())
	})

	It("retries server errors", func() {
		Expect(llm.IsRetryable(ctx, &openai.Error{StatusCode: 503})).To(BeTrue())
	})

	It("does not retry client errors", func() {
		Expect(llm.IsRetryable(ctx, &openai.Error{StatusCode: 400})).To(BeFalse())
	})

	It("retries plain network errors", func() {
		Expect(llm.IsRetryable(ctx, errors.New("connection reset"))).To(BeTrue())
	})
})
