package roster_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sagarc03/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type SpyUserRepo struct {
	mock.Mock
}

func (s *SpyUserRepo) Create(ctx context.Context, u roster.CreateUser) (int64, error) {
	args := s.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (s *SpyUserRepo) Get(ctx context.Context, id int64) (roster.User, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(roster.User), args.Error(1)
}

func (s *SpyUserRepo) Delete(ctx context.Context, id int64) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

// fakeSessions hands every callback the same repo and counts sessions.
type fakeSessions struct {
	repo     *SpyUserRepo
	sessions int
}

type fakeSession struct {
	repo *SpyUserRepo
}

func (f fakeSession) Users() roster.UserRepo { return f.repo }

func (f fakeSession) Exec(ctx context.Context, query string, args ...any) error { return nil }

func (f *fakeSessions) Session(ctx context.Context, fn func(roster.Session) error) error {
	f.sessions++
	return fn(fakeSession{repo: f.repo})
}

func NewUserService(t *testing.T) (*roster.UserService, *SpyUserRepo, *fakeSessions) {
	t.Helper()
	spyRepo := new(SpyUserRepo)
	sessions := &fakeSessions{repo: spyRepo}
	s, err := roster.NewUserService(sessions)
	assert.NoError(t, err, "new user service")
	return s, spyRepo, sessions
}

func TestNewUserService_NilProvider(t *testing.T) {
	_, err := roster.NewUserService(nil)
	assert.Error(t, err)
}

func TestUserService_Create(t *testing.T) {
	input := roster.CreateUser{Name: "John", Fullname: "John Doe", Nickname: "johnny"}

	t.Run("success reads back by generated id", func(t *testing.T) {
		service, repo, sessions := NewUserService(t)
		ctx := context.Background()

		want := roster.User{ID: 7, Name: "John", Fullname: "John Doe", Nickname: "johnny"}
		repo.On("Create", ctx, input).Return(int64(7), nil)
		repo.On("Get", ctx, int64(7)).Return(want, nil)

		got, err := service.Create(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, 2, sessions.sessions, "insert and read-back use separate sessions")

		repo.AssertExpectations(t)
	})

	t.Run("missing after insert is internal, not not-found", func(t *testing.T) {
		service, repo, _ := NewUserService(t)
		ctx := context.Background()

		repo.On("Create", ctx, input).Return(int64(3), nil)
		repo.On("Get", ctx, int64(3)).Return(roster.User{}, roster.ErrNotFound)

		_, err := service.Create(ctx, input)
		assert.ErrorIs(t, err, roster.ErrInternal)
		assert.Equal(t, roster.OutcomeInternal, roster.Classify(err))

		repo.AssertExpectations(t)
	})

	t.Run("insert error", func(t *testing.T) {
		service, repo, sessions := NewUserService(t)
		ctx := context.Background()

		repo.On("Create", ctx, input).Return(int64(0), io.ErrClosedPipe)

		_, err := service.Create(ctx, input)
		assert.ErrorIs(t, err, io.ErrClosedPipe)
		assert.Equal(t, 1, sessions.sessions)

		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("read back error", func(t *testing.T) {
		service, repo, _ := NewUserService(t)
		ctx := context.Background()

		repo.On("Create", ctx, input).Return(int64(4), nil)
		repo.On("Get", ctx, int64(4)).Return(roster.User{}, io.ErrUnexpectedEOF)

		_, err := service.Create(ctx, input)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.NotErrorIs(t, err, roster.ErrInternal)
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name  string
			input roster.CreateUser
		}{
			{name: "empty name", input: roster.CreateUser{Fullname: "a", Nickname: "b"}},
			{name: "empty fullname", input: roster.CreateUser{Name: "a", Nickname: "b"}},
			{name: "empty nickname", input: roster.CreateUser{Name: "a", Fullname: "b"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service, repo, sessions := NewUserService(t)

				_, err := service.Create(context.Background(), tt.input)
				assert.ErrorIs(t, err, roster.ErrInvalidInput)
				assert.Equal(t, 0, sessions.sessions)

				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("context cancelled before operation", func(t *testing.T) {
		service, repo, _ := NewUserService(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.Create(ctx, input)
		assert.ErrorIs(t, err, context.Canceled)

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserService_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, repo, _ := NewUserService(t)
		ctx := context.Background()

		want := roster.User{ID: 1, Name: "Jane", Fullname: "Jane Doe", Nickname: "jane"}
		repo.On("Get", ctx, int64(1)).Return(want, nil)

		got, err := service.Get(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("not found", func(t *testing.T) {
		service, repo, _ := NewUserService(t)
		ctx := context.Background()

		repo.On("Get", ctx, int64(99)).Return(roster.User{}, roster.ErrNotFound)

		_, err := service.Get(ctx, 99)
		assert.ErrorIs(t, err, roster.ErrNotFound)
		assert.Equal(t, roster.OutcomeNotFound, roster.Classify(err))
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("returns final values", func(t *testing.T) {
		service, repo, sessions := NewUserService(t)
		ctx := context.Background()

		want := roster.User{ID: 5, Name: "Jake", Fullname: "Jake Doe", Nickname: "jake"}
		repo.On("Get", ctx, int64(5)).Return(want, nil)
		repo.On("Delete", ctx, int64(5)).Return(nil)

		got, err := service.Delete(ctx, 5)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, 1, sessions.sessions)

		repo.AssertExpectations(t)
	})

	t.Run("not found skips delete", func(t *testing.T) {
		service, repo, _ := NewUserService(t)
		ctx := context.Background()

		repo.On("Get", ctx, int64(5)).Return(roster.User{}, roster.ErrNotFound)

		_, err := service.Delete(ctx, 5)
		assert.ErrorIs(t, err, roster.ErrNotFound)

		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("delete error", func(t *testing.T) {
		service, repo, _ := NewUserService(t)
		ctx := context.Background()

		deleteErr := errors.New("disk full")
		repo.On("Get", ctx, int64(5)).Return(roster.User{ID: 5}, nil)
		repo.On("Delete", ctx, int64(5)).Return(deleteErr)

		_, err := service.Delete(ctx, 5)
		assert.ErrorIs(t, err, deleteErr)
		assert.Equal(t, roster.OutcomeInternal, roster.Classify(err))
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want roster.Outcome
	}{
		{name: "nil", err: nil, want: roster.OutcomeSuccess},
		{name: "not found", err: roster.ErrNotFound, want: roster.OutcomeNotFound},
		{name: "invalid", err: roster.ErrInvalidInput, want: roster.OutcomeInvalid},
		{name: "internal", err: roster.ErrInternal, want: roster.OutcomeInternal},
		{name: "unknown", err: errors.New("boom"), want: roster.OutcomeInternal},
		{name: "internal beats not found", err: errors.Join(roster.ErrNotFound, roster.ErrInternal), want: roster.OutcomeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roster.Classify(tt.err))
		})
	}
}
