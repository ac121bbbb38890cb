package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/ogurasousui/manpower-clean-arch/internal/core/company"
	"golang.org/x/crypto/bcrypt"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const minPasswordLength = 6

// PasswordHasher はパスワードのハッシュ化と照合を行います。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher は bcrypt による PasswordHasher の実装です。
type BcryptHasher struct{}

// Hash はパスワードを bcrypt でハッシュ化します。
func (BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare はハッシュと平文パスワードを照合します。
func (BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Service は認証・登録に関するユースケースをまとめます。
type Service struct {
	users     Repository
	companies company.Repository
	tokens    TokenIssuer
	hasher    PasswordHasher
	clock     Clock
	tx        TransactionManager
}

// UseCase は認証ユースケースの公開インターフェースです。
type UseCase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*User, error)
}

// NewService は Service を生成します。
func NewService(users Repository, companies company.Repository, tokens TokenIssuer, hasher PasswordHasher, clock Clock, tx TransactionManager) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{users: users, companies: companies, tokens: tokens, hasher: hasher, clock: clock, tx: tx}
}

// RegisterInput は会社と管理者の同時登録時の入力です。
type RegisterInput struct {
	CompanyName string
	FullName    string
	Email       string
	Password    string
}

// LoginInput はログイン時の入力です。
type LoginInput struct {
	Email    string
	Password string
}

// RegisterEmployeeInput は管理者による社内ユーザー登録時の入力です。
type RegisterEmployeeInput struct {
	Actor    Identity
	FullName string
	Email    string
	Password string
	Role     *Role
}

// AuthResult は認証成功時の結果です。
type AuthResult struct {
	User  *User
	Token string
}

// Register は会社(テナント)と管理者ユーザーを 1 トランザクションで作成します。
// 会社名・メールアドレスの重複は一意制約違反として返却されます。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	companyName := strings.TrimSpace(in.CompanyName)
	if companyName == "" {
		return nil, ErrInvalidCompanyName
	}

	fullName, email, err := normalizeProfile(in.FullName, in.Email)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	var created *User
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		tenant, err := s.companies.Create(txCtx, &company.Company{
			Name:      companyName,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		admin, err := s.users.Create(txCtx, &User{
			CompanyID:    &tenant.ID,
			FullName:     fullName,
			Email:        email,
			PasswordHash: hash,
			Role:         RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}

		if err := s.companies.SetAdmin(txCtx, tenant.ID, admin.ID); err != nil {
			return err
		}

		created = admin
		return nil
	}); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: created, Token: token}, nil
}

// Login は資格情報を検証してトークンを発行します。
// ユーザーの不存在とパスワード不一致は区別されません。
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	found, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(found.PasswordHash, in.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(found)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: found, Token: token}, nil
}

// RegisterEmployee は操作主体と同じテナントに社内ユーザーを追加します。
func (s *Service) RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*User, error) {
	if in.Actor.CompanyID == nil {
		return nil, ErrCompanyRequired
	}

	fullName, email, err := normalizeProfile(in.FullName, in.Email)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := RoleEmployee
	if in.Role != nil {
		switch *in.Role {
		case RoleAdmin, RoleEmployee:
			role = *in.Role
		default:
			return nil, ErrInvalidRole
		}
	}

	now := s.clock.Now()
	companyID := *in.Actor.CompanyID

	return s.users.Create(ctx, &User{
		CompanyID:    &companyID,
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *Service) hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrInvalidPassword
	}
	return s.hasher.Hash(password)
}

func normalizeProfile(rawName, rawEmail string) (fullName, email string, err error) {
	fullName = strings.TrimSpace(rawName)
	if len(fullName) < 3 {
		return "", "", ErrInvalidFullName
	}

	email = strings.ToLower(strings.TrimSpace(rawEmail))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", "", ErrInvalidEmail
	}

	return fullName, email, nil
}
