package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mailcal/internal/client/client"
	"github.com/dmitrijs2005/mailcal/internal/client/identity"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mailcal/internal/common"
	"github.com/dmitrijs2005/mailcal/internal/logging"
)

// AccountService manages the identity token and reports who is signed in.
//
// Contract:
//   - SetToken: validate a token, hold it for requests and remember it locally.
//   - Restore: load a remembered token when none was configured.
//   - SignOut: forget the token.
//   - UserID: the subject of the held token, or common.AnonymousUser.
type AccountService interface {
	SetToken(ctx context.Context, token string) error
	Restore(ctx context.Context) error
	SignOut(ctx context.Context) error
	Claims() (*identity.Claims, bool)
	UserID() string
	Me(ctx context.Context) (*models.User, error)
}

type accountService struct {
	client client.Client
	tokens *identity.StaticSource
	meta   metadata.Repository
	log    logging.Logger
}

func NewAccountService(c client.Client, tokens *identity.StaticSource, meta metadata.Repository, log logging.Logger) AccountService {
	return &accountService{client: c, tokens: tokens, meta: meta, log: log.With("service", "account")}
}

func (a *accountService) SetToken(ctx context.Context, token string) error {
	if err := a.tokens.Set(token); err != nil {
		return err
	}
	if err := a.meta.Set(ctx, metadata.KeyIDToken, token); err != nil {
		return fmt.Errorf("remember token: %w", err)
	}
	if c, ok := a.tokens.Claims(); ok {
		if err := a.meta.Set(ctx, metadata.KeyLastUser, c.Subject); err != nil {
			return fmt.Errorf("remember user: %w", err)
		}
	}
	return nil
}

func (a *accountService) Restore(ctx context.Context) error {
	if _, ok := a.tokens.Claims(); ok {
		return nil
	}
	token, ok, err := a.meta.Get(ctx, metadata.KeyIDToken)
	if err != nil || !ok {
		return err
	}
	if err := a.tokens.Set(token); err != nil {
		a.log.Warn(ctx, "discarding unreadable stored token", "error", err)
		return a.meta.Delete(ctx, metadata.KeyIDToken)
	}
	return nil
}

func (a *accountService) SignOut(ctx context.Context) error {
	if err := a.tokens.Set(""); err != nil {
		return err
	}
	return a.meta.Delete(ctx, metadata.KeyIDToken)
}

func (a *accountService) Claims() (*identity.Claims, bool) {
	return a.tokens.Claims()
}

func (a *accountService) UserID() string {
	if c, ok := a.tokens.Claims(); ok && c.Subject != "" {
		return c.Subject
	}
	return common.AnonymousUser
}

func (a *accountService) Me(ctx context.Context) (*models.User, error) {
	return a.client.Me(ctx)
}
