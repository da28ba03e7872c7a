package auth

//go:generate mockgen -source=auth_client.go -destination=mock/auth_client_mock.go -package=mock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	autherrors "go-presence/internal/auth/errors"
)

// Authenticator verifies credentials against the remote employee service.
type Authenticator interface {
	Login(ctx context.Context, email, password, companyID string) (Identity, error)
}

type httpAuthenticator struct {
	baseURL string
	http    *http.Client
}

func NewAuthenticator(baseURL string, hc *http.Client) Authenticator {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &httpAuthenticator{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (a *httpAuthenticator) Login(ctx context.Context, email, password, companyID string) (Identity, error) {
	payload, err := json.Marshal(loginBody{Email: email, Password: password, CompanyID: companyID})
	if err != nil {
		return Identity{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/employee/login", bytes.NewReader(payload))
	if err != nil {
		return Identity{}, autherrors.ErrAuthUnavailable.WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return Identity{}, autherrors.ErrAuthUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Identity{}, autherrors.ErrAuthUnavailable.WithCause(err)
	}

	var reply loginReply
	decodeErr := json.Unmarshal(body, &reply)

	// Only a plain 200 counts as a successful login.
	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && reply.Message != "" {
			return Identity{}, autherrors.ErrLoginFailed.WithMessage(reply.Message)
		}
		return Identity{}, autherrors.ErrLoginFailed.WithCause(fmt.Errorf("status %d", resp.StatusCode))
	}
	if decodeErr != nil {
		return Identity{}, autherrors.ErrLoginFailed.WithCause(decodeErr)
	}
	if reply.Data == nil || reply.Data.ID == "" {
		return Identity{}, autherrors.ErrLoginFailed.WithCause(fmt.Errorf("login reply has no user id"))
	}

	cid := string(reply.Data.CompanyID)
	if cid == "" {
		cid = companyID
	}
	return Identity{
		ID:        string(reply.Data.ID),
		Name:      reply.Data.Name,
		Email:     reply.Data.Email,
		CompanyID: cid,
	}, nil
}
