package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo"
	"proposal-management-api/internal/service"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controllerFixture struct {
	handler  *echo.Echo
	services *service.Services
	customer *entity.Customer
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()

	repos := repo.NewMemoryRepositories()
	services := service.NewServices(repos)

	handler := echo.New()
	SetupRoutesHandlers(handler, services)

	customer, err := entity.NewCustomer("Ana Souza", "ana@example.com", "12345678900", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, repos.Customer.Save(context.Background(), customer))

	return &controllerFixture{handler: handler, services: services, customer: customer}
}

func (f *controllerFixture) request(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	return rec
}

func (f *controllerFixture) createProposal(t *testing.T) proposalOutput {
	t.Helper()

	rec := f.request(http.MethodPost, "/api/v1/proposals",
		`{"customerId":"`+f.customer.ID.String()+`","value":1500}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var output proposalOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))

	return output
}

func TestPostProposal(t *testing.T) {
	f := newControllerFixture(t)

	output := f.createProposal(t)

	assert.Equal(t, "draft", output.State)
	assert.Equal(t, 1, output.Version)
	assert.Equal(t, 1500.0, output.Value)
	assert.Equal(t, f.customer.ID.String(), output.CustomerId)
}

func TestPostProposalIdempotentReplayReturns200(t *testing.T) {
	f := newControllerFixture(t)
	body := `{"customerId":"` + f.customer.ID.String() + `","value":1500}`
	headers := map[string]string{"Idempotency-Key": "create-1"}

	first := f.request(http.MethodPost, "/api/v1/proposals", body, headers)
	require.Equal(t, http.StatusCreated, first.Code)

	second := f.request(http.MethodPost, "/api/v1/proposals", body, headers)
	assert.Equal(t, http.StatusOK, second.Code)

	var firstOutput, secondOutput proposalOutput
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstOutput))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondOutput))
	assert.Equal(t, firstOutput.Id, secondOutput.Id)
}

func TestPostProposalUnknownCustomerReturns404(t *testing.T) {
	f := newControllerFixture(t)

	rec := f.request(http.MethodPost, "/api/v1/proposals",
		`{"customerId":"a3bb189e-8bf9-3888-9912-ace4e6543002","value":100}`, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostProposalInvalidBodyReturns400(t *testing.T) {
	f := newControllerFixture(t)

	rec := f.request(http.MethodPost, "/api/v1/proposals", `{"value":-5}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitThenApproveFlow(t *testing.T) {
	f := newControllerFixture(t)
	proposal := f.createProposal(t)

	rec := f.request(http.MethodPost, "/api/v1/proposals/"+proposal.Id+"/submit",
		`{"expectedVersion":1}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var submitted proposalOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.Equal(t, "sent", submitted.State)
	assert.Equal(t, 2, submitted.Version)
	assert.NotNil(t, submitted.SentAt)

	rec = f.request(http.MethodPost, "/api/v1/proposals/"+proposal.Id+"/approve",
		`{"expectedVersion":2}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var approved proposalOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approved))
	assert.Equal(t, "accepted", approved.State)
	assert.NotNil(t, approved.RespondedAt)
}

func TestSubmitWithStaleVersionReturns409(t *testing.T) {
	f := newControllerFixture(t)
	proposal := f.createProposal(t)

	rec := f.request(http.MethodPost, "/api/v1/proposals/"+proposal.Id+"/submit",
		`{"expectedVersion":1}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(http.MethodPost, "/api/v1/proposals/"+proposal.Id+"/approve",
		`{"expectedVersion":1}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApproveDraftReturns422(t *testing.T) {
	f := newControllerFixture(t)
	proposal := f.createProposal(t)

	rec := f.request(http.MethodPost, "/api/v1/proposals/"+proposal.Id+"/approve",
		`{"expectedVersion":1}`, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCancelAcceptedReturns409(t *testing.T) {
	f := newControllerFixture(t)
	proposal := f.createProposal(t)

	require.Equal(t, http.StatusOK, f.request(http.MethodPost,
		"/api/v1/proposals/"+proposal.Id+"/submit", `{"expectedVersion":1}`, nil).Code)
	require.Equal(t, http.StatusOK, f.request(http.MethodPost,
		"/api/v1/proposals/"+proposal.Id+"/approve", `{"expectedVersion":2}`, nil).Code)

	rec := f.request(http.MethodPost, "/api/v1/proposals/"+proposal.Id+"/cancel",
		`{"expectedVersion":3}`, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPatchProposalOutsideDraftReturns422(t *testing.T) {
	f := newControllerFixture(t)
	proposal := f.createProposal(t)

	require.Equal(t, http.StatusOK, f.request(http.MethodPost,
		"/api/v1/proposals/"+proposal.Id+"/submit", `{"expectedVersion":1}`, nil).Code)

	rec := f.request(http.MethodPatch, "/api/v1/proposals/"+proposal.Id,
		`{"expectedVersion":2,"value":2000}`, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPatchProposalValue(t *testing.T) {
	f := newControllerFixture(t)
	proposal := f.createProposal(t)

	rec := f.request(http.MethodPatch, "/api/v1/proposals/"+proposal.Id,
		`{"expectedVersion":1,"value":2000}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated proposalOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 2000.0, updated.Value)
	assert.Equal(t, 2, updated.Version)
}

func TestGetProposals(t *testing.T) {
	f := newControllerFixture(t)
	f.createProposal(t)
	f.createProposal(t)
	f.createProposal(t)

	rec := f.request(http.MethodGet, "/api/v1/proposals?state=draft&perPage=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page proposalPageOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))

	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestGetProposalAudit(t *testing.T) {
	f := newControllerFixture(t)
	proposal := f.createProposal(t)

	require.Equal(t, http.StatusOK, f.request(http.MethodPost,
		"/api/v1/proposals/"+proposal.Id+"/submit", `{"expectedVersion":1}`, nil).Code)

	rec := f.request(http.MethodGet, "/api/v1/proposals/"+proposal.Id+"/audit", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []auditRecordOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))

	require.Len(t, records, 2)
	assert.Equal(t, "STATUS_CHANGED", records[0].Event)
	assert.Equal(t, "CREATED", records[1].Event)
}

func TestGetProposalUnknownIDReturns404(t *testing.T) {
	f := newControllerFixture(t)

	rec := f.request(http.MethodGet, "/api/v1/proposals/a3bb189e-8bf9-3888-9912-ace4e6543002", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
