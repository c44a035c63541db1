package store

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Simonbn1/eksamen/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Profile carries the fields an identity provider reports about a user.
type Profile struct {
	Name    string
	Email   string
	Picture string
	Claims  datatypes.JSON
}

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a password-registered user. Accounts without a
// provider subject get an own-issued one so the (provider, subject)
// index stays meaningful.
func (s *UserStore) Create(user *models.User) error {
	if user.Subject == "" {
		user.Subject = uuid.NewString()
	}

	return s.db.Create(user).Error
}

func (s *UserStore) GetByID(id uint) (models.User, error) {
	var user models.User

	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	return user, nil
}

// GetByEmail resolves a password account. OAuth accounts log in through
// their provider, never by email lookup.
func (s *UserStore) GetByEmail(email string) (models.User, error) {
	var user models.User

	err := s.db.Where("email = ? AND provider = ''", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	return user, nil
}

// UpsertBySubject creates or refreshes the user record for an external
// identity, keyed by the provider's subject claim. The profile fields
// are overwritten on every login; a single statement keeps concurrent
// logins from racing.
func (s *UserStore) UpsertBySubject(provider, subject string, profile Profile) (models.User, error) {
	user := models.User{
		Provider: provider,
		Subject:  subject,
		Name:     profile.Name,
		Email:    strings.ToLower(strings.TrimSpace(profile.Email)),
		Picture:  profile.Picture,
		Claims:   profile.Claims,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "picture", "claims", "updated_at"}),
	}).Create(&user).Error

	if err != nil {
		return models.User{}, err
	}

	var saved models.User

	err = s.db.Where("provider = ? AND subject = ?", provider, subject).First(&saved).Error

	if err != nil {
		return models.User{}, err
	}

	return saved, nil
}

// Lookup finds the user a request-supplied reference names. Numeric
// references are store ids; anything else matches a provider subject.
// Never creates.
func (s *UserStore) Lookup(ref string) (models.User, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return s.GetByID(uint(id))
	}

	var user models.User

	if err := s.db.Where("subject = ?", ref).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	return user, nil
}

// Resolve maps a request-supplied user reference to a record. Numeric
// references are store ids and must exist; anything else is treated as
// a provider subject and upserted, matching the login-derived identity
// model where the first join may precede the first profile fetch.
func (s *UserStore) Resolve(ref string) (models.User, error) {
	user, err := s.Lookup(ref)

	if err == nil {
		return user, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	if _, perr := strconv.ParseUint(ref, 10, 64); perr == nil {
		// Numeric ids are never minted on demand.
		return models.User{}, ErrNotFound
	}

	user = models.User{Subject: ref}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against a concurrent first join.
			var existing models.User
			if ferr := s.db.Where("subject = ?", ref).First(&existing).Error; ferr == nil {
				return existing, nil
			}
		}
		return models.User{}, err
	}

	return user, nil
}
