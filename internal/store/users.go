package store

import (
	"context"
	"errors"
	"time"

	"github.com/justsurfingit/carreira-ia/internal/models"
	"gorm.io/gorm"
)

// UpsertUser creates the user on first login or refreshes the profile fields
// on later logins. The owner open-id is always promoted to admin.
func (s *Store) UpsertUser(ctx context.Context, in models.User, ownerOpenID string) (*models.User, error) {
	now := time.Now()
	var user models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("open_id = ?", in.OpenID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				OpenID:             in.OpenID,
				Name:               in.Name,
				Email:              in.Email,
				LoginMethod:        in.LoginMethod,
				Role:               models.RoleUser,
				SubscriptionStatus: models.SubscriptionInactive,
				LastSignedIn:       now,
			}
			if ownerOpenID != "" && in.OpenID == ownerOpenID {
				user.Role = models.RoleAdmin
			}
			return tx.Create(&user).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"last_signed_in": now}
		if in.Name != "" {
			updates["name"] = in.Name
		}
		if in.Email != "" {
			updates["email"] = in.Email
		}
		if in.LoginMethod != "" {
			updates["login_method"] = in.LoginMethod
		}
		if ownerOpenID != "" && in.OpenID == ownerOpenID && user.Role != models.RoleAdmin {
			updates["role"] = models.RoleAdmin
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return nil, writeErr("upsert user", err)
	}
	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, lookupErr("user", err)
	}
	return &u, nil
}

func (s *Store) FindUserByStripeCustomer(ctx context.Context, customerID string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&u).Error; err != nil {
		return nil, lookupErr("user by customer", err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		if degraded("list users", err) {
			return []models.User{}, nil
		}
		return nil, listErr("list users", err)
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	return affected("update user", res)
}
