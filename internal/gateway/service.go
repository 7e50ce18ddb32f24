package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/remnaops/vless-gateway/internal/identity"
	"github.com/remnaops/vless-gateway/internal/probe"
	"github.com/remnaops/vless-gateway/internal/remna"
)

// Authorizer answers roster membership for a raw MAC string.
type Authorizer interface {
	Contains(ctx context.Context, mac string) (bool, error)
}

// Provisioner is the upstream user-management API.
type Provisioner interface {
	CreateUser(ctx context.Context, username string) (remna.CreateResult, error)
	GetSubscriptionLink(ctx context.Context, username string) (string, bool, error)
}

// TailscaleConfig describes the alternate backend used by the join flow.
type TailscaleConfig struct {
	Host    string
	AuthKey string
	Port    int
}

// Service sequences the two provisioning flows. All collaborators are
// injected so tests can substitute them.
type Service struct {
	roster      Authorizer
	provisioner Provisioner
	prober      probe.Prober
	tailscale   TailscaleConfig
}

func NewService(roster Authorizer, provisioner Provisioner, prober probe.Prober, tailscale TailscaleConfig) *Service {
	return &Service{
		roster:      roster,
		provisioner: provisioner,
		prober:      prober,
		tailscale:   tailscale,
	}
}

// IssueVlessLink runs the full VLESS flow: validate, authorize,
// create-or-reuse the upstream user, fetch the subscription link.
func (s *Service) IssueVlessLink(ctx context.Context, mac string) (string, error) {
	username, err := s.authorize(ctx, mac)
	if err != nil {
		return "", err
	}

	result, err := s.provisioner.CreateUser(ctx, username)
	if err != nil {
		return "", mapRemnaError(err)
	}
	slog.Info("User provisioned", "username", username, "result", result)

	link, ok, err := s.provisioner.GetSubscriptionLink(ctx, username)
	if err != nil {
		return "", mapRemnaError(err)
	}
	if !ok {
		return "", NewError(CodeLinkRetrievalFailed, "no subscription links returned for user")
	}
	return link, nil
}

// IssueTailscaleCommand runs the join flow: validate, authorize, probe
// the Tailscale server, compose the join command. No upstream account
// is provisioned here.
func (s *Service) IssueTailscaleCommand(ctx context.Context, mac string) (string, error) {
	if _, err := s.authorize(ctx, mac); err != nil {
		return "", err
	}

	if err := s.prober.Probe(ctx, s.tailscale.Host, s.tailscale.Port); err != nil {
		return "", WrapError(CodeTailscaleUnavailable,
			fmt.Sprintf("tailscale server %s is unreachable", s.tailscale.Host), err)
	}

	command := fmt.Sprintf("tailscale up --login-server=https://%s --authkey=%s",
		s.tailscale.Host, s.tailscale.AuthKey)
	return command, nil
}

// authorize validates the raw MAC and checks roster membership. The
// returned username is the normalized identity; it is what the upstream
// API keys user records on, so the idempotent-conflict path matches
// regardless of how the client formats the MAC.
func (s *Service) authorize(ctx context.Context, mac string) (string, error) {
	username := identity.Normalize(mac)
	if username == "" {
		return "", NewError(CodeInvalidMac, "mac_address is required")
	}

	found, err := s.roster.Contains(ctx, mac)
	if err != nil {
		return "", WrapError(CodeSheetAccess, "failed to read the authorization roster", err)
	}
	if !found {
		return "", NewError(CodeMacNotFound, "MAC address is not authorized")
	}
	return username, nil
}

// mapRemnaError translates a provisioning-client failure into the
// client-facing code for its operation, folding the cause category into
// the message.
func mapRemnaError(err error) *Error {
	var remnaErr *remna.Error
	if !errors.As(err, &remnaErr) {
		return WrapError(CodeRemnaAPI, "unexpected remna API failure", err)
	}

	var code Code
	switch remnaErr.Op {
	case "create_user":
		code = CodeUserCreationFailed
	case "get_vless":
		code = CodeLinkRetrievalFailed
	default:
		code = CodeRemnaAPI
	}

	message := fmt.Sprintf("remna %s failed (%s)", remnaErr.Op, remnaErr.Category)
	if remnaErr.Category == remna.CategoryHTTP {
		message = fmt.Sprintf("remna %s failed (HTTP %d)", remnaErr.Op, remnaErr.StatusCode)
	}
	return WrapError(code, message, err)
}
