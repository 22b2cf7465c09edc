package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jackc/pgx/v5/pgconn"
	"moodline.app/pulse/common/id"
	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/service"
	"moodline.app/pulse/internal/store"
)

var _ = Describe("UserService", func() {
	var (
		svc       service.UserService
		mockStore *mockUserStore
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockStore = &mockUserStore{}

		err := id.Init(1)
		Expect(err).NotTo(HaveOccurred())

		svc = service.NewUserService(mockStore)
	})

	Describe("Register", func() {
		Context("when the username is new", func() {
			It("should create a user with a generated snowflake ID", func() {
				var capturedUser *model.User
				mockStore.getByUsernameFn = func(_ context.Context, _ string) (*model.User, error) {
					return nil, store.ErrNotFound
				}
				mockStore.createFn = func(_ context.Context, u *model.User) error {
					capturedUser = u
					return nil
				}

				user, err := svc.Register(ctx, "ada")

				Expect(err).NotTo(HaveOccurred())
				Expect(user).NotTo(BeNil())
				Expect(user.ID).NotTo(BeZero())
				Expect(user.Username).To(Equal("ada"))

				Expect(capturedUser).NotTo(BeNil())
				Expect(capturedUser.ID).To(Equal(user.ID))
			})
		})

		Context("when the username already exists", func() {
			It("should return the existing user without creating", func() {
				existing := &model.User{ID: 42, Username: "ada"}
				mockStore.getByUsernameFn = func(_ context.Context, _ string) (*model.User, error) {
					return existing, nil
				}

				user, err := svc.Register(ctx, "ada")

				Expect(err).NotTo(HaveOccurred())
				Expect(user).To(Equal(existing))
				Expect(mockStore.createCalls).To(BeZero())
			})
		})

		Context("when two registrations race on the unique index", func() {
			It("should re-read the row that won", func() {
				winner := &model.User{ID: 42, Username: "ada"}
				lookups := 0
				mockStore.getByUsernameFn = func(_ context.Context, _ string) (*model.User, error) {
					lookups++
					if lookups == 1 {
						return nil, store.ErrNotFound
					}
					return winner, nil
				}
				mockStore.createFn = func(_ context.Context, _ *model.User) error {
					return &pgconn.PgError{Code: "23505"}
				}

				user, err := svc.Register(ctx, "ada")

				Expect(err).NotTo(HaveOccurred())
				Expect(user).To(Equal(winner))
				Expect(lookups).To(Equal(2))
			})
		})

		Context("when the lookup fails", func() {
			It("should propagate the error", func() {
				mockStore.getByUsernameFn = func(_ context.Context, _ string) (*model.User, error) {
					return nil, errors.New("database connection failed")
				}

				user, err := svc.Register(ctx, "ada")

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("looking up user"))
				Expect(user).To(BeNil())
			})
		})

		Context("when the insert fails", func() {
			It("should propagate the error", func() {
				mockStore.getByUsernameFn = func(_ context.Context, _ string) (*model.User, error) {
					return nil, store.ErrNotFound
				}
				mockStore.createFn = func(_ context.Context, _ *model.User) error {
					return errors.New("database connection failed")
				}

				user, err := svc.Register(ctx, "ada")

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("creating user"))
				Expect(user).To(BeNil())
			})
		})
	})

	Describe("Get", func() {
		It("should return the stored user", func() {
			mockStore.getByIDFn = func(_ context.Context, userID int64) (*model.User, error) {
				return &model.User{ID: userID, Username: "ada"}, nil
			}

			user, err := svc.Get(ctx, 7)

			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(int64(7)))
		})

		It("should pass through a missing user", func() {
			mockStore.getByIDFn = func(_ context.Context, _ int64) (*model.User, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.Get(ctx, 7)

			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})
	})
})
