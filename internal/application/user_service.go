package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sanikant20/bookMandala-Server/internal/domain/entity"
	repo "github.com/sanikant20/bookMandala-Server/internal/domain/repository"
	"github.com/sanikant20/bookMandala-Server/pkg/helpers"
	"github.com/sanikant20/bookMandala-Server/pkg/httpmeta"
	"github.com/sanikant20/bookMandala-Server/pkg/mailer"
	mailtpl "github.com/sanikant20/bookMandala-Server/pkg/mailer/templates"
)

var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrUserNotFound     = errors.New("user not found")
	ErrUploadFailed     = errors.New("avatar upload failed")
	ErrWrongOldPassword = errors.New("old password is incorrect")
	// ErrRecordGone signals a persistence inconsistency: a record that was
	// expected after a write is missing. Not a client error.
	ErrRecordGone = errors.New("record missing after write")
)

// AvatarUploader stores an avatar image and returns its durable URL.
type AvatarUploader interface {
	Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error)
}

// Service orchestrates account operations: validation and sequencing only;
// storage and uniqueness live in the repository, hashing and token issuance
// in the helpers.
type Service struct {
	Repo         repo.UserRepository
	Audit        repo.AuditRepository
	Uploader     AvatarUploader
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Pub          *helpers.RabbitPublisher
	MailEnabled  bool
}

func NewService(r repo.UserRepository, audit repo.AuditRepository, uploader AvatarUploader, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, pub *helpers.RabbitPublisher, mailEnabled bool) *Service {
	return &Service{
		Repo:         r,
		Audit:        audit,
		Uploader:     uploader,
		JWT:          jwt,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Pub:          pub,
		MailEnabled:  mailEnabled,
	}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type RegisterInput struct {
	Fullname    string
	Email       string
	PhoneNumber string
	DOB         string
	Gender      string
	Password    string
}

// Register creates an account. The avatar upload happens first; a user is
// never created without a stored avatar URL. Email is normalized to
// lowercase, and the unique index on email is the source of truth for
// conflicts: the pre-insert read only produces the early 409.
func (s *Service) Register(ctx context.Context, in RegisterInput, avatar io.Reader, filename, contentType string) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		// A store failure is not "no user"; fail before uploading anything.
		return nil, err
	}

	// The record does not exist yet, so the object lands under a pending
	// prefix rather than a user id.
	url, err := s.Uploader.Upload(ctx, "pending", filename, contentType, avatar)
	if err != nil || url == "" {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("avatar upload failed")
		}
		return nil, ErrUploadFailed
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Fullname:    in.Fullname,
		Email:       email,
		Password:    hash,
		PhoneNumber: in.PhoneNumber,
		DOB:         in.DOB,
		Gender:      in.Gender,
		Avatar:      url,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	created, err := s.Repo.GetByID(ctx, u.ID.Hex())
	if err != nil || created == nil {
		return nil, ErrRecordGone
	}

	s.audit(ctx, created.ID.Hex(), created.Email, "register", nil)
	s.enqueueEmail(ctx, created.Email, mailtpl.Welcome, map[string]any{"Name": created.Fullname, "Email": created.Email})
	_ = s.indexUser(ctx, created)
	return created, nil
}

// Login verifies credentials and issues a fresh access token, persisting it
// onto the record. Unknown email and wrong password are deliberately
// distinguishable, matching the established API contract.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, "", ErrInvalidEmail
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidPassword
	}

	token, _, err := s.JWT.GenerateAccessToken(u.ID.Hex())
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Error("generate access token failed")
		}
		return nil, "", err
	}
	if err := s.Repo.SetAccessToken(ctx, u.ID.Hex(), token); err != nil {
		return nil, "", err
	}
	u.AccessToken = token

	if s.Redis != nil {
		key := sessionKey(u.ID.Hex())
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID.Hex(),
			"email":      u.Email,
			"fullname":   u.Fullname,
			"avatar":     u.Avatar,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	s.audit(ctx, u.ID.Hex(), u.Email, "login", nil)
	return u, token, nil
}

// Logout clears the stored access token, invalidating the session.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if _, err := s.Repo.UnsetAccessToken(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRecordGone
		}
		return err
	}
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("redis del failed")
		}
	}
	s.audit(ctx, userID, "", "logout", nil)
	return nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Fullname        *string
	PhoneNumber     *string
	DOB             *string
	Gender          *string
	ShippingAddress *entity.Address
}

// UpdateProfile writes only the fields present in the input. Absent fields
// survive untouched.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	fields := map[string]any{}
	if in.Fullname != nil {
		fields["fullname"] = *in.Fullname
	}
	if in.PhoneNumber != nil {
		fields["phoneNumber"] = *in.PhoneNumber
	}
	if in.DOB != nil {
		fields["dob"] = *in.DOB
	}
	if in.Gender != nil {
		fields["gender"] = *in.Gender
	}
	if in.ShippingAddress != nil {
		fields["shippingAddress"] = *in.ShippingAddress
	}
	if len(fields) == 0 {
		u, err := s.Repo.GetByID(ctx, userID)
		if err != nil || u == nil {
			return nil, ErrRecordGone
		}
		return u, nil
	}

	u, err := s.Repo.UpdateFields(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecordGone
		}
		return nil, err
	}

	s.mirrorSession(ctx, u)
	_ = s.indexUser(ctx, u)
	return u, nil
}

// UpdateAvatar uploads a replacement avatar and overwrites the stored URL.
func (s *Service) UpdateAvatar(ctx context.Context, userID, filename, contentType string, r io.Reader) (*entity.User, error) {
	url, err := s.Uploader.Upload(ctx, userID, filename, contentType, r)
	if err != nil || url == "" {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("avatar upload failed")
		}
		return nil, ErrUploadFailed
	}
	u, err := s.Repo.UpdateFields(ctx, userID, map[string]any{"avatar": url})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecordGone
		}
		return nil, err
	}

	s.mirrorSession(ctx, u)
	_ = s.indexUser(ctx, u)
	return u, nil
}

// ChangePassword verifies the old password and replaces the stored hash.
// The new/confirm equality check belongs to the request layer.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		return nil, ErrWrongOldPassword
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetPassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecordGone
		}
		return nil, err
	}
	u.Password = hash

	s.audit(ctx, userID, u.Email, "password_change", nil)
	s.enqueueEmail(ctx, u.Email, mailtpl.PasswordChanged, map[string]any{"Name": u.Fullname, "Email": u.Email})
	return u, nil
}

func (s *Service) mirrorSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := sessionKey(u.ID.Hex())
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"fullname":   u.Fullname,
		"avatar":     u.Avatar,
		"updated_at": nowRFC3339(),
	})
	if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

func (s *Service) audit(ctx context.Context, userID, email, action string, metadata map[string]any) {
	if s.Audit == nil {
		return
	}
	e := &entity.AuditEvent{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        httpmeta.ClientIP(ctx),
		UserAgent: httpmeta.UserAgent(ctx),
		Metadata:  metadata,
	}
	if err := s.Audit.Insert(ctx, e); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}

func (s *Service) enqueueEmail(ctx context.Context, to, tpl string, data map[string]any) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: tpl, Data: data}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", tpl).Warn("failed to publish email job")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          u.ID.Hex(),
		"email":       u.Email,
		"fullname":    u.Fullname,
		"phoneNumber": u.PhoneNumber,
		"avatar":      u.Avatar,
		"created_at":  u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID.Hex()).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a simple multi_match search on email and fullname.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "fullname"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
