package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanikant20/bookMandala-Server/internal/domain/entity"
	repo "github.com/sanikant20/bookMandala-Server/internal/domain/repository"
	"github.com/sanikant20/bookMandala-Server/pkg/helpers"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*entity.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UnsetAccessToken(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) SetAccessToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockUserRepository) SetPassword(ctx context.Context, id, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

// MockUploader is a mock implementation of AvatarUploader.
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, userID, filename, contentType, r)
	return args.String(0), args.Error(1)
}

func newTestService(r *MockUserRepository, up *MockUploader) *Service {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewService(r, nil, up, jwt, nil, nil, nil, "", nil, false)
}

func hashOf(t *testing.T, pwd string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

var errStoreDown = errors.New("store down")

func TestService_Register(t *testing.T) {
	input := RegisterInput{
		Fullname:    "Jane Doe",
		Email:       "Jane@Ex.com",
		PhoneNumber: "555-0100",
		DOB:         "1990-01-01",
		Gender:      "F",
		Password:    "secret1",
	}

	tests := []struct {
		name          string
		setupMock     func(*MockUserRepository, *MockUploader)
		expectedError error
	}{
		{
			name: "successful registration lowercases email and stores avatar",
			setupMock: func(r *MockUserRepository, up *MockUploader) {
				r.On("GetByEmail", mock.Anything, "jane@ex.com").Return(nil, repo.ErrNotFound)
				up.On("Upload", mock.Anything, "pending", "avatar.png", "image/png", mock.Anything).Return("https://cdn.example.com/a.png", nil)
				r.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
					u := args.Get(1).(*entity.User)
					u.ID = primitive.NewObjectID()
				}).Return(nil)
				r.On("GetByID", mock.Anything, mock.AnythingOfType("string")).Return(&entity.User{
					ID:       primitive.NewObjectID(),
					Fullname: "Jane Doe",
					Email:    "jane@ex.com",
					Avatar:   "https://cdn.example.com/a.png",
				}, nil)
			},
		},
		{
			name: "duplicate email found by pre-read",
			setupMock: func(r *MockUserRepository, up *MockUploader) {
				r.On("GetByEmail", mock.Anything, "jane@ex.com").Return(&entity.User{Email: "jane@ex.com"}, nil)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name: "duplicate email caught by unique index on insert",
			setupMock: func(r *MockUserRepository, up *MockUploader) {
				r.On("GetByEmail", mock.Anything, "jane@ex.com").Return(nil, repo.ErrNotFound)
				up.On("Upload", mock.Anything, "pending", "avatar.png", "image/png", mock.Anything).Return("https://cdn.example.com/a.png", nil)
				r.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(repo.ErrDuplicateEmail)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name: "store failure on the pre-read aborts before any upload",
			setupMock: func(r *MockUserRepository, up *MockUploader) {
				r.On("GetByEmail", mock.Anything, "jane@ex.com").Return(nil, errStoreDown)
			},
			expectedError: errStoreDown,
		},
		{
			name: "upload failure aborts before any insert",
			setupMock: func(r *MockUserRepository, up *MockUploader) {
				r.On("GetByEmail", mock.Anything, "jane@ex.com").Return(nil, repo.ErrNotFound)
				up.On("Upload", mock.Anything, "pending", "avatar.png", "image/png", mock.Anything).Return("", errors.New("bucket down"))
			},
			expectedError: ErrUploadFailed,
		},
		{
			name: "re-read missing after insert is an internal inconsistency",
			setupMock: func(r *MockUserRepository, up *MockUploader) {
				r.On("GetByEmail", mock.Anything, "jane@ex.com").Return(nil, repo.ErrNotFound)
				up.On("Upload", mock.Anything, "pending", "avatar.png", "image/png", mock.Anything).Return("https://cdn.example.com/a.png", nil)
				r.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
					u := args.Get(1).(*entity.User)
					u.ID = primitive.NewObjectID()
				}).Return(nil)
				r.On("GetByID", mock.Anything, mock.AnythingOfType("string")).Return(nil, repo.ErrNotFound)
			},
			expectedError: ErrRecordGone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockUp := new(MockUploader)
			tt.setupMock(mockRepo, mockUp)

			svc := newTestService(mockRepo, mockUp)
			u, err := svc.Register(context.Background(), input, strings.NewReader("img"), "avatar.png", "image/png")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, u)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, u)
				assert.Equal(t, "jane@ex.com", u.Email)
				assert.Equal(t, "https://cdn.example.com/a.png", u.Avatar)
			}

			mockRepo.AssertExpectations(t)
			mockUp.AssertExpectations(t)
		})
	}
}

func TestService_Register_HashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockUp := new(MockUploader)

	var stored *entity.User
	mockRepo.On("GetByEmail", mock.Anything, "jane@ex.com").Return(nil, repo.ErrNotFound)
	mockUp.On("Upload", mock.Anything, "pending", "a.png", "image/png", mock.Anything).Return("https://cdn.example.com/a.png", nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*entity.User)
		stored.ID = primitive.NewObjectID()
	}).Return(nil)
	mockRepo.On("GetByID", mock.Anything, mock.AnythingOfType("string")).Return(&entity.User{Email: "jane@ex.com"}, nil)

	svc := newTestService(mockRepo, mockUp)
	_, err := svc.Register(context.Background(), RegisterInput{
		Fullname: "Jane Doe", Email: "Jane@Ex.com", PhoneNumber: "555-0100",
		DOB: "1990-01-01", Gender: "F", Password: "secret1",
	}, strings.NewReader("img"), "a.png", "image/png")

	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "secret1"))
}

func TestService_Login(t *testing.T) {
	uid := primitive.NewObjectID()

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*testing.T, *MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login persists the issued token",
			email:    "jane@ex.com",
			password: "secret1",
			setupMock: func(t *testing.T, r *MockUserRepository) {
				r.On("GetByEmail", mock.Anything, "jane@ex.com").Return(&entity.User{
					ID: uid, Email: "jane@ex.com", Password: hashOf(t, "secret1"),
				}, nil)
				r.On("SetAccessToken", mock.Anything, uid.Hex(), mock.AnythingOfType("string")).Return(nil)
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@ex.com",
			password: "secret1",
			setupMock: func(t *testing.T, r *MockUserRepository) {
				r.On("GetByEmail", mock.Anything, "nobody@ex.com").Return(nil, repo.ErrNotFound)
			},
			expectedError: ErrInvalidEmail,
		},
		{
			name:     "wrong password never touches the token",
			email:    "jane@ex.com",
			password: "wrong",
			setupMock: func(t *testing.T, r *MockUserRepository) {
				r.On("GetByEmail", mock.Anything, "jane@ex.com").Return(&entity.User{
					ID: uid, Email: "jane@ex.com", Password: hashOf(t, "secret1"),
				}, nil)
			},
			expectedError: ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(t, mockRepo)

			svc := newTestService(mockRepo, new(MockUploader))
			u, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, u)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, token, u.AccessToken)

				claims, perr := svc.JWT.ParseAccessToken(token)
				assert.NoError(t, perr)
				assert.Equal(t, uid.Hex(), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Logout(t *testing.T) {
	uid := primitive.NewObjectID()

	t.Run("clears the stored token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("UnsetAccessToken", mock.Anything, uid.Hex()).Return(&entity.User{ID: uid}, nil)

		svc := newTestService(mockRepo, new(MockUploader))
		assert.NoError(t, svc.Logout(context.Background(), uid.Hex()))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing record is an internal inconsistency", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("UnsetAccessToken", mock.Anything, uid.Hex()).Return(nil, repo.ErrNotFound)

		svc := newTestService(mockRepo, new(MockUploader))
		assert.ErrorIs(t, svc.Logout(context.Background(), uid.Hex()), ErrRecordGone)
	})
}

func TestService_UpdateProfile_PartialUpdate(t *testing.T) {
	uid := primitive.NewObjectID()
	fullname := "Jane D."

	mockRepo := new(MockUserRepository)
	mockRepo.On("UpdateFields", mock.Anything, uid.Hex(), map[string]any{"fullname": "Jane D."}).Return(&entity.User{
		ID: uid, Fullname: "Jane D.", PhoneNumber: "555-0100",
	}, nil)

	svc := newTestService(mockRepo, new(MockUploader))
	u, err := svc.UpdateProfile(context.Background(), uid.Hex(), UpdateProfileInput{Fullname: &fullname})

	assert.NoError(t, err)
	// Only the supplied field reaches the update; absent fields survive.
	assert.Equal(t, "555-0100", u.PhoneNumber)
	mockRepo.AssertExpectations(t)
}

func TestService_UpdateProfile_NoFields(t *testing.T) {
	uid := primitive.NewObjectID()

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, uid.Hex()).Return(&entity.User{ID: uid, Fullname: "Jane Doe"}, nil)

	svc := newTestService(mockRepo, new(MockUploader))
	u, err := svc.UpdateProfile(context.Background(), uid.Hex(), UpdateProfileInput{})

	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", u.Fullname)
	mockRepo.AssertExpectations(t)
}

func TestService_UpdateAvatar(t *testing.T) {
	uid := primitive.NewObjectID()

	t.Run("upload failure", func(t *testing.T) {
		mockUp := new(MockUploader)
		mockUp.On("Upload", mock.Anything, uid.Hex(), "a.png", "image/png", mock.Anything).Return("", errors.New("bucket down"))

		svc := newTestService(new(MockUserRepository), mockUp)
		_, err := svc.UpdateAvatar(context.Background(), uid.Hex(), "a.png", "image/png", strings.NewReader("img"))
		assert.ErrorIs(t, err, ErrUploadFailed)
	})

	t.Run("overwrites the avatar field", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockUp := new(MockUploader)
		mockUp.On("Upload", mock.Anything, uid.Hex(), "a.png", "image/png", mock.Anything).Return("https://cdn.example.com/b.png", nil)
		mockRepo.On("UpdateFields", mock.Anything, uid.Hex(), map[string]any{"avatar": "https://cdn.example.com/b.png"}).Return(&entity.User{
			ID: uid, Avatar: "https://cdn.example.com/b.png",
		}, nil)

		svc := newTestService(mockRepo, mockUp)
		u, err := svc.UpdateAvatar(context.Background(), uid.Hex(), "a.png", "image/png", strings.NewReader("img"))
		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/b.png", u.Avatar)
		mockRepo.AssertExpectations(t)
	})
}

func TestService_ChangePassword(t *testing.T) {
	uid := primitive.NewObjectID()

	t.Run("wrong old password leaves the hash unchanged", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, uid.Hex()).Return(&entity.User{
			ID: uid, Password: hashOf(t, "secret1"),
		}, nil)

		svc := newTestService(mockRepo, new(MockUploader))
		_, err := svc.ChangePassword(context.Background(), uid.Hex(), "nope", "newsecret1")
		assert.ErrorIs(t, err, ErrWrongOldPassword)
		mockRepo.AssertNotCalled(t, "SetPassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("correct old password rotates the hash", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, uid.Hex()).Return(&entity.User{
			ID: uid, Email: "jane@ex.com", Password: hashOf(t, "secret1"),
		}, nil)
		var newHash string
		mockRepo.On("SetPassword", mock.Anything, uid.Hex(), mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
			newHash = args.String(2)
		}).Return(nil)

		svc := newTestService(mockRepo, new(MockUploader))
		_, err := svc.ChangePassword(context.Background(), uid.Hex(), "secret1", "newsecret1")
		assert.NoError(t, err)
		assert.True(t, helpers.CompareHashAndPassword(newHash, "newsecret1"))
		assert.False(t, helpers.CompareHashAndPassword(newHash, "secret1"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, uid.Hex()).Return(nil, repo.ErrNotFound)

		svc := newTestService(mockRepo, new(MockUploader))
		_, err := svc.ChangePassword(context.Background(), uid.Hex(), "secret1", "newsecret1")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestService_GetProfile(t *testing.T) {
	uid := primitive.NewObjectID()

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, uid.Hex()).Return(&entity.User{ID: uid, Email: "jane@ex.com"}, nil)

	svc := newTestService(mockRepo, new(MockUploader))
	u, err := svc.GetProfile(context.Background(), uid.Hex())
	assert.NoError(t, err)
	assert.Equal(t, "jane@ex.com", u.Email)
}
