// internal/services/cascade_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phonebay/phonebay-backend/internal/models"
)

// CascadeService propagates phone and user deletion across the aggregates
// that reference them: carts, wishlists and embedded reviews. The steps are
// a sequence of independent writes, not an atomic unit; a step that fails
// partway leaves prior steps' mutations in place.
type CascadeService struct {
	db             *gorm.DB
	storageService *StorageService
	auditService   *AuditService
}

func NewCascadeService(db *gorm.DB, storageService *StorageService, auditService *AuditService) *CascadeService {
	return &CascadeService{
		db:             db,
		storageService: storageService,
		auditService:   auditService,
	}
}

// DeletePhone removes the phone and every reference to it. Idempotent:
// re-running against an already-cleaned state removes nothing further.
func (s *CascadeService) DeletePhone(phoneID uuid.UUID, actorID *uuid.UUID) error {
	var phone models.Phone
	if err := s.db.First(&phone, "id = ?", phoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already gone. Sweep any references a previous partial run
			// may have left behind, then report success.
			return s.removePhoneReferences(phoneID)
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Stored asset cleanup is best effort and never fatal.
	if s.storageService != nil && phone.ImageURL != "" {
		if err := s.storageService.DeleteFile(phone.ImageURL); err != nil {
			logrus.WithError(err).WithField("phone_id", phoneID).
				Warn("Failed to delete phone image")
		}
	}

	if err := s.removePhoneReferences(phoneID); err != nil {
		return err
	}

	// Reviews live inside the phone aggregate and die with it.
	if err := s.db.Delete(&models.Review{}, "phone_id = ?", phoneID).Error; err != nil {
		return fmt.Errorf("failed to delete phone reviews: %w", err)
	}

	if err := s.db.Delete(&phone).Error; err != nil {
		return fmt.Errorf("failed to delete phone: %w", err)
	}

	if s.auditService != nil {
		s.auditService.Record(actorID, "phone.delete", "phone", &phoneID,
			models.JSONB{"title": phone.Title})
	}
	return nil
}

// DeleteUser removes the user together with everything they sold, bought
// into carts, reviewed or wishlisted. Idempotent.
func (s *CascadeService) DeleteUser(userID uuid.UUID, actorID *uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Every phone this user sells goes through the full phone cascade,
	// transitively cleaning carts and wishlists. The user deletion must
	// still complete, so per-phone failures are logged, not fatal.
	var phones []models.Phone
	if err := s.db.Where("seller_id = ?", userID).Find(&phones).Error; err != nil {
		return fmt.Errorf("failed to scan phones: %w", err)
	}
	phoneIDs := make([]string, 0, len(phones))
	for i := range phones {
		phoneIDs = append(phoneIDs, phones[i].ID.String())
		if err := s.DeletePhone(phones[i].ID, actorID); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id":  userID,
				"phone_id": phones[i].ID,
			}).Error("Phone cascade failed during user delete")
		}
	}

	// The user's own cart and orders.
	var cart models.Cart
	if err := s.db.Where("user_id = ?", userID).First(&cart).Error; err == nil {
		if err := s.db.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		if err := s.db.Delete(&cart).Error; err != nil {
			return fmt.Errorf("failed to delete cart: %w", err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("database error: %w", err)
	}

	var orders []models.Order
	if err := s.db.Where("user_id = ?", userID).Find(&orders).Error; err != nil {
		return fmt.Errorf("failed to scan orders: %w", err)
	}
	for i := range orders {
		if err := s.db.Delete(&models.OrderItem{}, "order_id = ?", orders[i].ID).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
	}
	if len(orders) > 0 {
		if err := s.db.Delete(&models.Order{}, "user_id = ?", userID).Error; err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}
	}

	// Reviews this user authored on other sellers' phones.
	if err := s.db.Delete(&models.Review{}, "reviewer_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete authored reviews: %w", err)
	}

	// The per-phone cascade already swept wishlists, but a partially
	// failed cascade above must not leave dangling ids behind.
	if len(phoneIDs) > 0 {
		if err := s.sweepWishlists(phoneIDs...); err != nil {
			return err
		}
	}

	if err := s.db.Delete(&user).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if s.auditService != nil {
		s.auditService.Record(actorID, "user.delete", "user", &userID,
			models.JSONB{"username": user.Username})
	}
	return nil
}

func (s *CascadeService) removePhoneReferences(phoneID uuid.UUID) error {
	// Strip every cart line referencing the phone.
	if err := s.db.Delete(&models.CartItem{}, "phone_id = ?", phoneID).Error; err != nil {
		return fmt.Errorf("failed to remove cart references: %w", err)
	}
	return s.sweepWishlists(phoneID.String())
}

// sweepWishlists removes the given phone ids from every user's wishlist.
// Wishlists are embedded arrays on the user row, so this is a full scan;
// only changed rows are written back.
func (s *CascadeService) sweepWishlists(phoneIDs ...string) error {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return fmt.Errorf("failed to scan users: %w", err)
	}

	for i := range users {
		if !users[i].RemoveFromWishlist(phoneIDs...) {
			continue
		}
		if err := s.db.Model(&models.User{}).Where("id = ?", users[i].ID).
			Update("wishlist", users[i].Wishlist).Error; err != nil {
			return fmt.Errorf("failed to update wishlist for user %s: %w", users[i].ID, err)
		}
	}
	return nil
}
