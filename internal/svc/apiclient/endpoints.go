package apiclient

import "net/url"

// Paths below /api/v1/ of the remote API.
const (
	PathSignup          = "auth/signup"
	PathSignin          = "auth/signin"
	PathForgotPassword  = "auth/forgotPasswords"
	PathVerifyResetCode = "auth/verifyResetCode"
	PathResetPassword   = "auth/resetPassword"
	PathVerifyToken     = "auth/verifyToken"

	PathCategories    = "categories"
	PathSubCategories = "subcategories"
	PathBrands        = "brands"
	PathProducts      = "products"

	PathCart      = "cart"
	PathWishlist  = "wishlist"
	PathAddresses = "addresses"

	PathOrders          = "orders/"
	PathUserOrders      = "orders/user"
	PathCheckoutSession = "orders/checkout-session"

	PathUpdateMe       = "users/updateMe/"
	PathChangePassword = "users/changeMyPassword"
)

func resourcePath(base string, ids ...string) string {
	path := base

	for _, id := range ids {
		path += "/" + url.PathEscape(id)
	}

	return path
}
