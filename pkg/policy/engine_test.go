package policy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/keygateco/keygate/pkg/config"
	"github.com/keygateco/keygate/pkg/policy"
)

var _ = Describe("Engine", func() {
	var engine *policy.Engine

	BeforeEach(func() {
		cfg := &config.Config{
			Targets: map[string]config.TargetConfig{
				"openrouter": {BaseURL: "https://openrouter.ai/api/v1"},
			},
			Secrets: map[string]string{
				"or_rk1": "Bearer sk-live-xyz",
			},
			Clients: map[string]config.ClientPolicy{
				"rk-robot-1": {
					Target:         "openrouter",
					AuthHeaderRef:  "or_rk1",
					AllowedMethods: []string{"POST"},
					AllowedPaths:   []string{"/chat/completions"},
					TimeoutMs:      60000,
				},
			},
		}
		engine = policy.NewEngine(cfg)
	})

	Describe("Authorize", func() {
		Context("with an unknown client key", func() {
			It("returns ErrUnauthorized", func() {
				_, err := engine.Authorize("unknown-key", "POST", "/chat/completions")

				Expect(err).To(MatchError(policy.ErrUnauthorized))
			})

			It("returns ErrUnauthorized regardless of method and path validity", func() {
				_, err := engine.Authorize("unknown-key", "TRACE", "/nowhere")

				Expect(err).To(MatchError(policy.ErrUnauthorized))
			})
		})

		Context("with a known client key", func() {
			It("returns the matched policy when method and path are allowed", func() {
				pol, err := engine.Authorize("rk-robot-1", "POST", "/chat/completions")

				Expect(err).NotTo(HaveOccurred())
				Expect(pol.Target).To(Equal("openrouter"))
				Expect(pol.AuthHeaderRef).To(Equal("or_rk1"))
			})

			It("matches methods case-insensitively", func() {
				pol, err := engine.Authorize("rk-robot-1", "post", "/chat/completions")

				Expect(err).NotTo(HaveOccurred())
				Expect(pol).NotTo(BeNil())
			})

			It("returns ErrMethodNotAllowed for a disallowed method even on an allowed path", func() {
				_, err := engine.Authorize("rk-robot-1", "GET", "/chat/completions")

				Expect(err).To(MatchError(policy.ErrMethodNotAllowed))
			})

			It("checks the method before the path", func() {
				_, err := engine.Authorize("rk-robot-1", "GET", "/nowhere")

				Expect(err).To(MatchError(policy.ErrMethodNotAllowed))
			})

			It("returns ErrPathNotAllowed for an undeclared path", func() {
				_, err := engine.Authorize("rk-robot-1", "POST", "/models")

				Expect(err).To(MatchError(policy.ErrPathNotAllowed))
			})

			It("matches paths exactly, with no prefix semantics", func() {
				_, err := engine.Authorize("rk-robot-1", "POST", "/chat/completions/extra")

				Expect(err).To(MatchError(policy.ErrPathNotAllowed))

				_, err = engine.Authorize("rk-robot-1", "POST", "/chat")
				Expect(err).To(MatchError(policy.ErrPathNotAllowed))
			})

			It("denies every path when the allowlist is empty", func() {
				cfg := &config.Config{
					Clients: map[string]config.ClientPolicy{
						"locked": {
							Target:         "openrouter",
							AllowedMethods: []string{"GET"},
							TimeoutMs:      1000,
						},
					},
				}
				e := policy.NewEngine(cfg)

				_, err := e.Authorize("locked", "GET", "/anything")
				Expect(err).To(MatchError(policy.ErrPathNotAllowed))
			})
		})

		Context("purity", func() {
			It("is idempotent for identical inputs", func() {
				first, err1 := engine.Authorize("rk-robot-1", "POST", "/chat/completions")
				second, err2 := engine.Authorize("rk-robot-1", "POST", "/chat/completions")

				Expect(err1).NotTo(HaveOccurred())
				Expect(err2).NotTo(HaveOccurred())
				Expect(first).To(Equal(second))
			})

			It("never mutates the returned policy's backing configuration", func() {
				pol, err := engine.Authorize("rk-robot-1", "POST", "/chat/completions")
				Expect(err).NotTo(HaveOccurred())

				pol.Target = "elsewhere"
				pol.TimeoutMs = 1

				again, err := engine.Authorize("rk-robot-1", "POST", "/chat/completions")
				Expect(err).NotTo(HaveOccurred())
				Expect(again.Target).To(Equal("openrouter"))
				Expect(again.TimeoutMs).To(Equal(60000))
			})
		})
	})
})
