package usecase

import "errors"

var (
	// ErrUserNotFound indicates the account does not exist or is not provisioned yet.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserDeactivated indicates the account has been soft-deleted.
	ErrUserDeactivated = errors.New("account is deactivated")
	// ErrItemNotFound indicates the listing does not exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrSwapNotFound indicates the swap does not exist.
	ErrSwapNotFound = errors.New("swap not found")
	// ErrPermissionDenied indicates the caller lacks the required role or ownership.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrItemNotSwappable indicates the requested or offered item is not active and approved.
	ErrItemNotSwappable = errors.New("item is not available for swapping")
	// ErrSelfSwap indicates a user tried to request their own item.
	ErrSelfSwap = errors.New("cannot request a swap for your own item")
	// ErrOfferedItemRequired indicates a direct swap without an offered item.
	ErrOfferedItemRequired = errors.New("offered item is required for a direct swap")
	// ErrOfferedItemNotOwned indicates the offered item does not belong to the requester.
	ErrOfferedItemNotOwned = errors.New("offered item does not belong to you")
	// ErrInsufficientPoints indicates the requester cannot cover the redemption price.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrItemUnavailable indicates an item vanished or lost approval between
	// request and settlement; the swap has been rejected.
	ErrItemUnavailable = errors.New("item is no longer available")
	// ErrSwapNotPending indicates a response to an already-resolved swap.
	ErrSwapNotPending = errors.New("swap is no longer pending")
	// ErrNotSwapProvider indicates a respond attempt by anyone but the provider.
	ErrNotSwapProvider = errors.New("only the item provider can respond to this swap")
	// ErrNotSwapParticipant indicates a message attempt by a third party.
	ErrNotSwapParticipant = errors.New("only swap participants can send messages")
	// ErrEmptyMessage indicates blank message content.
	ErrEmptyMessage = errors.New("message content is required")

	// ErrInvalidSwapType indicates an unknown swap type value.
	ErrInvalidSwapType = errors.New("invalid swap type")
	// ErrInvalidSwapRole indicates an unknown role filter value.
	ErrInvalidSwapRole = errors.New("invalid swap role filter")
	// ErrInvalidSwapStatus indicates an unknown status filter value.
	ErrInvalidSwapStatus = errors.New("invalid swap status filter")
	// ErrTitleRequired indicates a listing without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidCategory indicates an unknown item category.
	ErrInvalidCategory = errors.New("invalid item category")
	// ErrInvalidCondition indicates an unknown item condition.
	ErrInvalidCondition = errors.New("invalid item condition")
	// ErrInvalidPointValue indicates a point value below the minimum.
	ErrInvalidPointValue = errors.New("point value must be at least 1")
	// ErrInvalidModerationStatus indicates a moderation decision outside pending/approved/rejected.
	ErrInvalidModerationStatus = errors.New("invalid moderation status")
	// ErrInvalidRole indicates a role outside user/admin.
	ErrInvalidRole = errors.New("invalid role")
)
