// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserDeleted        = "user.deleted"

	// Phones
	KeyPhoneCreated  = "phone.created"
	KeyPhoneUpdated  = "phone.updated"
	KeyPhoneDeleted  = "phone.deleted"
	KeyPhoneNotFound = "phone.not_found"

	// Cart
	KeyCartItemAdded   = "cart.item_added"
	KeyCartItemUpdated = "cart.item_updated"
	KeyCartItemRemoved = "cart.item_removed"
	KeyCartEmpty       = "cart.empty"

	// Orders
	KeyOrderPlaced   = "order.placed"
	KeyOrderNotFound = "order.not_found"

	// Reviews
	KeyReviewAdded   = "review.added"
	KeyReviewUpdated = "review.updated"
	KeyReviewDeleted = "review.deleted"

	// Wishlist
	KeyWishlistAdded   = "wishlist.added"
	KeyWishlistRemoved = "wishlist.removed"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"
	KeyAdminUserUpdated  = "admin.user_updated"

	// Validation
	KeyValidationInvalid = "validation.invalid"
)
