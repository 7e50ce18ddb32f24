package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/remnaops/vless-gateway/internal/remna"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRoster struct {
	members map[string]bool
	err     error
	calls   int
}

func (m *mockRoster) Contains(ctx context.Context, mac string) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	return m.members[mac], nil
}

type mockProvisioner struct {
	createResult remna.CreateResult
	createErr    error
	createCalls  int

	link      string
	linkOK    bool
	linkErr   error
	linkCalls int

	lastUsername string
}

func (m *mockProvisioner) CreateUser(ctx context.Context, username string) (remna.CreateResult, error) {
	m.createCalls++
	m.lastUsername = username
	return m.createResult, m.createErr
}

func (m *mockProvisioner) GetSubscriptionLink(ctx context.Context, username string) (string, bool, error) {
	m.linkCalls++
	return m.link, m.linkOK, m.linkErr
}

type mockProber struct {
	err   error
	calls int
}

func (m *mockProber) Probe(ctx context.Context, host string, port int) error {
	m.calls++
	return m.err
}

func newTestService(roster *mockRoster, prov *mockProvisioner, prober *mockProber) *Service {
	return NewService(roster, prov, prober, TailscaleConfig{
		Host:    "ts.example.com",
		AuthKey: "tskey-auth-xyz",
		Port:    443,
	})
}

func TestIssueVlessLink(t *testing.T) {
	roster := &mockRoster{members: map[string]bool{"aabbccddeeff": true}}
	prov := &mockProvisioner{createResult: remna.Created, link: "vless://token1", linkOK: true}
	svc := newTestService(roster, prov, &mockProber{})

	link, err := svc.IssueVlessLink(context.Background(), "aabbccddeeff")
	require.NoError(t, err)
	assert.Equal(t, "vless://token1", link)
	assert.Equal(t, "aabbccddeeff", prov.lastUsername)
}

func TestIssueVlessLinkNormalizesUsername(t *testing.T) {
	roster := &mockRoster{members: map[string]bool{"AA:BB:CC:DD:EE:FF": true}}
	prov := &mockProvisioner{createResult: remna.Created, link: "vless://token1", linkOK: true}
	svc := newTestService(roster, prov, &mockProber{})

	_, err := svc.IssueVlessLink(context.Background(), "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	assert.Equal(t, "aabbccddeeff", prov.lastUsername)
}

func TestIssueVlessLinkEmptyMac(t *testing.T) {
	prov := &mockProvisioner{}
	svc := newTestService(&mockRoster{}, prov, &mockProber{})

	for _, mac := range []string{"", "   ", "::--!!"} {
		_, err := svc.IssueVlessLink(context.Background(), mac)
		var gwErr *Error
		require.ErrorAs(t, err, &gwErr, "mac %q", mac)
		assert.Equal(t, CodeInvalidMac, gwErr.Code)
		assert.Equal(t, http.StatusBadRequest, gwErr.Status())
	}
	assert.Zero(t, prov.createCalls)
}

func TestIssueVlessLinkNotAuthorized(t *testing.T) {
	prov := &mockProvisioner{}
	svc := newTestService(&mockRoster{members: map[string]bool{}}, prov, &mockProber{})

	_, err := svc.IssueVlessLink(context.Background(), "aabbccddeeff")
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, CodeMacNotFound, gwErr.Code)
	assert.Equal(t, http.StatusNotFound, gwErr.Status())
	// No provisioning call may fire for an unauthorized identity.
	assert.Zero(t, prov.createCalls)
	assert.Zero(t, prov.linkCalls)
}

func TestIssueVlessLinkRosterError(t *testing.T) {
	roster := &mockRoster{err: errors.New("sheet unreachable")}
	svc := newTestService(roster, &mockProvisioner{}, &mockProber{})

	_, err := svc.IssueVlessLink(context.Background(), "aabbccddeeff")
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, CodeSheetAccess, gwErr.Code)
	assert.Equal(t, http.StatusInternalServerError, gwErr.Status())
}

func TestIssueVlessLinkAlreadyExistsContinues(t *testing.T) {
	roster := &mockRoster{members: map[string]bool{"aabbccddeeff": true}}
	prov := &mockProvisioner{createResult: remna.AlreadyExists, link: "vless://token1", linkOK: true}
	svc := newTestService(roster, prov, &mockProber{})

	link, err := svc.IssueVlessLink(context.Background(), "aabbccddeeff")
	require.NoError(t, err)
	assert.Equal(t, "vless://token1", link)
	assert.Equal(t, 1, prov.linkCalls)
}

func TestIssueVlessLinkCreateTimeout(t *testing.T) {
	roster := &mockRoster{members: map[string]bool{"aabbccddeeff": true}}
	prov := &mockProvisioner{
		createErr: &remna.Error{Op: "create_user", Category: remna.CategoryTimeout},
	}
	svc := newTestService(roster, prov, &mockProber{})

	_, err := svc.IssueVlessLink(context.Background(), "aabbccddeeff")
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, CodeUserCreationFailed, gwErr.Code)
	assert.Equal(t, http.StatusBadGateway, gwErr.Status())
	assert.Contains(t, gwErr.Message, "timeout")
	// The flow must stop before link retrieval.
	assert.Zero(t, prov.linkCalls)
}

func TestIssueVlessLinkCreateHTTPError(t *testing.T) {
	roster := &mockRoster{members: map[string]bool{"aabbccddeeff": true}}
	prov := &mockProvisioner{
		createErr: &remna.Error{Op: "create_user", Category: remna.CategoryHTTP, StatusCode: 500, Body: "boom"},
	}
	svc := newTestService(roster, prov, &mockProber{})

	_, err := svc.IssueVlessLink(context.Background(), "aabbccddeeff")
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, CodeUserCreationFailed, gwErr.Code)
	assert.Contains(t, gwErr.Message, "HTTP 500")
	// Upstream bodies stay out of client-facing messages.
	assert.NotContains(t, gwErr.Message, "boom")
}

func TestIssueVlessLinkRetrievalFailure(t *testing.T) {
	roster := &mockRoster{members: map[string]bool{"aabbccddeeff": true}}
	prov := &mockProvisioner{
		createResult: remna.Created,
		linkErr:      &remna.Error{Op: "get_vless", Category: remna.CategoryMalformedJSON},
	}
	svc := newTestService(roster, prov, &mockProber{})

	_, err := svc.IssueVlessLink(context.Background(), "aabbccddeeff")
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, CodeLinkRetrievalFailed, gwErr.Code)
	assert.Equal(t, http.StatusBadGateway, gwErr.Status())
}

func TestIssueVlessLinkAbsentLink(t *testing.T) {
	roster := &mockRoster{members: map[string]bool{"aabbccddeeff": true}}
	prov := &mockProvisioner{createResult: remna.Created, linkOK: false}
	svc := newTestService(roster, prov, &mockProber{})

	_, err := svc.IssueVlessLink(context.Background(), "aabbccddeeff")
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, CodeLinkRetrievalFailed, gwErr.Code)
}

func TestIssueTailscaleCommand(t *testing.T) {
	roster := &mockRoster{members: map[string]bool{"aabbccddeeff": true}}
	prov := &mockProvisioner{}
	prober := &mockProber{}
	svc := newTestService(roster, prov, prober)

	cmd, err := svc.IssueTailscaleCommand(context.Background(), "aabbccddeeff")
	require.NoError(t, err)
	assert.Equal(t, "tailscale up --login-server=https://ts.example.com --authkey=tskey-auth-xyz", cmd)
	assert.Equal(t, 1, prober.calls)
	// The join flow never provisions an upstream account.
	assert.Zero(t, prov.createCalls)
}

func TestIssueTailscaleCommandUnreachable(t *testing.T) {
	roster := &mockRoster{members: map[string]bool{"aabbccddeeff": true}}
	prober := &mockProber{err: errors.New("connect timeout")}
	svc := newTestService(roster, &mockProvisioner{}, prober)

	_, err := svc.IssueTailscaleCommand(context.Background(), "aabbccddeeff")
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, CodeTailscaleUnavailable, gwErr.Code)
	assert.Equal(t, http.StatusBadGateway, gwErr.Status())
}

func TestIssueTailscaleCommandNotAuthorized(t *testing.T) {
	prober := &mockProber{}
	svc := newTestService(&mockRoster{}, &mockProvisioner{}, prober)

	_, err := svc.IssueTailscaleCommand(context.Background(), "aabbccddeeff")
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, CodeMacNotFound, gwErr.Code)
	assert.Zero(t, prober.calls)
}

func TestErrorCodeStatuses(t *testing.T) {
	cases := map[Code]int{
		CodeCredentialsNotFound:  http.StatusInternalServerError,
		CodeSheetAccess:          http.StatusInternalServerError,
		CodeMacNotFound:          http.StatusNotFound,
		CodeInvalidMac:           http.StatusBadRequest,
		CodeUserCreationFailed:   http.StatusBadGateway,
		CodeLinkRetrievalFailed:  http.StatusBadGateway,
		CodeRemnaAPI:             http.StatusBadGateway,
		CodeTailscaleUnavailable: http.StatusBadGateway,
		CodeConfiguration:        http.StatusInternalServerError,
		CodeInternal:             http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, code.HTTPStatus(), "code %s", code)
	}
}
