// Package testutils runs the HTTP API against a migrated sqlite database so
// handler tests exercise the full request path.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/fintrack/infra/eventbus"
	"github.com/amirasaad/fintrack/infra/initializer"
	"github.com/amirasaad/fintrack/pkg/config"
	pkgtestutils "github.com/amirasaad/fintrack/pkg/testutils"
	"github.com/amirasaad/fintrack/webapi"
	"github.com/amirasaad/fintrack/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// Secret signs the tokens issued by Token.
const Secret = "test-secret"

// E2ETestSuite serves the API over a fresh database for every test.
type E2ETestSuite struct {
	suite.Suite
	App      *fiber.App
	Bus      *infraeventbus.MemoryEventBus
	Cfg      *config.App
	Services initializer.Services
	Owner    uuid.UUID
	Token    string
}

// SetupTest gives each test its own database and owner.
func (s *E2ETestSuite) SetupTest() {
	s.Bus = infraeventbus.NewWithMemory(pkgtestutils.Logger())
	deps := pkgtestutils.Deps(s.T(), s.Bus)
	s.Cfg = deps.Config
	s.Cfg.Auth = &config.Auth{Jwt: &config.Jwt{Secret: Secret}}
	s.Cfg.RateLimit = &config.RateLimit{MaxRequests: 1000, Window: time.Minute}
	s.Services = initializer.NewServices(deps)
	s.App = webapi.SetupApp(s.Services, s.Cfg)
	s.Owner = uuid.New()
	s.Token = Token(s.T(), s.Owner)
}

// Token signs an HS256 token for owner.
func Token(t testing.TB, owner uuid.UUID) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": owner.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// MakeRequest sends a request through the app, authenticating with token
// when it is not empty.
func MakeRequest(app *fiber.App, method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err)
	}
	return resp
}

// MakeRequest sends an authenticated request as the suite's owner.
func (s *E2ETestSuite) MakeRequest(method, path, body string) *http.Response {
	return MakeRequest(s.App, method, path, body, s.Token)
}

// Decode reads a success envelope and unmarshals its data into out.
func (s *E2ETestSuite) Decode(resp *http.Response, out any) common.Response {
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	var envelope struct {
		Status  int             `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(raw, &envelope), string(raw))
	if out != nil {
		s.Require().NoError(json.Unmarshal(envelope.Data, out), string(raw))
	}
	return common.Response{Status: envelope.Status, Message: envelope.Message}
}

// Problem reads a problem details body.
func (s *E2ETestSuite) Problem(resp *http.Response) common.ProblemDetails {
	defer func() { _ = resp.Body.Close() }()
	var pd common.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}

// CreateAccount creates an account over HTTP and returns its id.
func (s *E2ETestSuite) CreateAccount(name string) uint {
	resp := s.MakeRequest(http.MethodPost, "/accounts", fmt.Sprintf(`{"name":%q}`, name))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var out struct {
		ID uint `json:"id"`
	}
	s.Decode(resp, &out)
	return out.ID
}

// Record posts a transaction against accountID and returns the status code.
func (s *E2ETestSuite) Record(accountID uint, amount, categoryName string) int {
	body := fmt.Sprintf(`{"account_id":%d,"amount":%q`, accountID, amount)
	if categoryName != "" {
		body += fmt.Sprintf(`,"category_name":%q`, categoryName)
	}
	body += "}"
	resp := s.MakeRequest(http.MethodPost, "/transactions", body)
	_ = resp.Body.Close()
	return resp.StatusCode
}
