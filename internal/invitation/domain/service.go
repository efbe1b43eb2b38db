package domain

import (
	"context"
	"errors"

	identitydomain "github.com/connectplus/connectplus/internal/identity/domain"
)

type RedeemRequest struct {
	Code string
	Name string
}

type RedeemResponse struct {
	User       identitydomain.User `json:"user"`
	Invitation Invitation          `json:"invitation"`
}

type ListRequest struct {
	UnusedOnly bool
}

type Service interface {
	// Create generates a fresh single-use code and stores it.
	Create(ctx context.Context) (Invitation, error)
	// Redeem consumes an unused code exactly once and creates the customer
	// identity bound to it. A used or unknown code mutates nothing.
	Redeem(ctx context.Context, req RedeemRequest) (*RedeemResponse, error)
	List(ctx context.Context, req ListRequest) ([]Invitation, error)
}

var (
	ErrInvalidInvitation = errors.New("invalid_invitation")
	ErrInvalidName       = errors.New("invalid_name")
)
