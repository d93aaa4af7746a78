package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"time"

	"jobboard/apperrors"
	"jobboard/utils"
)

// Collection identifiers on the external CMS
const (
	Candidates   = "candidates"
	Companies    = "aziendas"
	JobPostings  = "offerta-lavorativas"
	Applications = "candidaturas"
)

// Client talks to the headless CMS REST API. All canonical state lives on
// the CMS side; this client only fetches, mutates and classifies failures.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// User is the CMS account identity (distinct from the candidate/company profile)
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResponse is the CMS login/registration result
type AuthResponse struct {
	JWT  string `json:"jwt"`
	User User   `json:"user"`
}

// UploadedFile describes a file stored by the CMS upload endpoint
type UploadedFile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type dataEnvelope struct {
	Data any `json:"data"`
}

// cmsError matches the CMS error body: {"error":{"status":...,"name":...,"message":...}}
type cmsError struct {
	Error struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// FilterEq sets a filters[...][$eq]=value constraint; extra path segments
// express nested relation filters, e.g. FilterEq(q, id, "user", "id").
func FilterEq(q url.Values, value string, path ...string) url.Values {
	key := "filters"
	for _, p := range path {
		key += "[" + p + "]"
	}
	q.Set(key+"[$eq]", value)
	return q
}

// Populate asks the CMS to inline all first-level relations
func Populate(q url.Values) url.Values {
	q.Set("populate", "*")
	return q
}

// Authenticate exchanges credentials for a bearer token.
// POST /api/auth/local
func (c *Client) Authenticate(ctx context.Context, identifier, password string) (*AuthResponse, error) {
	payload := map[string]string{"identifier": identifier, "password": password}
	status, body, err := c.doJSON(ctx, http.MethodPost, "/api/auth/local", "", nil, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		// bad credentials come back as 400 from this endpoint
		return nil, apperrors.New(apperrors.KindAuth, "Invalid email or password").WithDetail(errorDetail(status, body))
	}
	var auth AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, apperrors.Wrap(apperrors.KindNetwork, "The backend returned a malformed login response", err)
	}
	if auth.JWT == "" {
		return nil, apperrors.New(apperrors.KindAuth, "Login failed").WithDetail(string(body))
	}
	return &auth, nil
}

// Register creates a CMS account.
// POST /api/auth/local/register
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	payload := map[string]string{"username": username, "email": email, "password": password}
	status, body, err := c.doJSON(ctx, http.MethodPost, "/api/auth/local/register", "", nil, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apperrors.New(apperrors.KindAuth, "Registration was rejected").WithDetail(errorDetail(status, body))
	}
	var auth AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, apperrors.Wrap(apperrors.KindNetwork, "The backend returned a malformed registration response", err)
	}
	return &auth, nil
}

// Me validates a bearer token against the CMS identity endpoint.
// GET /api/users/me
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	status, body, err := c.doJSON(ctx, http.MethodGet, "/api/users/me", token, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classify(status, body)
	}
	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, apperrors.Wrap(apperrors.KindNetwork, "The backend returned a malformed identity response", err)
	}
	return &user, nil
}

// List fetches a filtered collection
func (c *Client) List(ctx context.Context, token, collection string, query url.Values) ([]Document, error) {
	status, body, err := c.doJSON(ctx, http.MethodGet, "/api/"+collection, token, query, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classify(status, body)
	}
	var resp struct {
		Data []Document `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Wrap(apperrors.KindNetwork, "The backend returned a malformed list response", err)
	}
	return resp.Data, nil
}

// Get fetches one record by id or document identifier
func (c *Client) Get(ctx context.Context, token, collection, id string, query url.Values) (*Document, error) {
	status, body, err := c.doJSON(ctx, http.MethodGet, "/api/"+collection+"/"+id, token, query, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classify(status, body)
	}
	return decodeSingle(body)
}

// Create posts a new record wrapped in the CMS {data: ...} envelope
func (c *Client) Create(ctx context.Context, token, collection string, data map[string]any) (*Document, error) {
	status, body, err := c.doJSON(ctx, http.MethodPost, "/api/"+collection, token, nil, dataEnvelope{Data: data})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, classify(status, body)
	}
	return decodeSingle(body)
}

// Update sends a partial update wrapped in the {data: ...} envelope
func (c *Client) Update(ctx context.Context, token, collection, id string, data map[string]any) (*Document, error) {
	status, body, err := c.doJSON(ctx, http.MethodPut, "/api/"+collection+"/"+id, token, nil, dataEnvelope{Data: data})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, classify(status, body)
	}
	return decodeSingle(body)
}

// Delete removes a record; the CMS has no soft delete
func (c *Client) Delete(ctx context.Context, token, collection, id string) error {
	status, body, err := c.doJSON(ctx, http.MethodDelete, "/api/"+collection+"/"+id, token, nil, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return classify(status, body)
	}
	return nil
}

// Upload stores a file through the CMS media endpoint and returns its
// descriptor. POST /api/upload, multipart, field name "files".
func (c *Client) Upload(ctx context.Context, token, filename, contentType string, content []byte) (*UploadedFile, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", filename)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpload, "Could not prepare the file upload", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpload, "Could not prepare the file upload", err)
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpload, "Could not prepare the file upload", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/upload", token, nil, &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, classify(status, body)
	}
	if status < 200 || status >= 300 {
		return nil, apperrors.New(apperrors.KindUpload, "The CV could not be uploaded").WithDetail(errorDetail(status, body))
	}
	var files []UploadedFile
	if err := json.Unmarshal(body, &files); err != nil || len(files) == 0 {
		return nil, apperrors.New(apperrors.KindUpload, "The CV could not be uploaded").WithDetail(string(body))
	}
	return &files[0], nil
}

func decodeSingle(body []byte) (*Document, error) {
	var resp struct {
		Data Document `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Wrap(apperrors.KindNetwork, "The backend returned a malformed response", err)
	}
	return &resp.Data, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, query url.Values, payload any) (int, []byte, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, apperrors.Wrap(apperrors.KindNetwork, "Could not encode the request", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, query, body, contentType)
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body io.Reader, contentType string) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, nil, apperrors.Wrap(apperrors.KindNetwork, "Could not build the request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, nil, apperrors.Wrap(apperrors.KindTimeout, "The backend did not respond in time", err)
		}
		return 0, nil, apperrors.Wrap(apperrors.KindNetwork, "The backend could not be reached", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, apperrors.Wrap(apperrors.KindNetwork, "The backend response could not be read", err)
	}
	return resp.StatusCode, data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// classify maps a non-2xx CMS response to the failure taxonomy. The raw
// body is preserved as diagnostic detail and logged, never shown to users.
func classify(status int, body []byte) error {
	detail := errorDetail(status, body)
	utils.LogDebug("CMS request rejected", map[string]any{"status": status, "body": string(body)})
	switch status {
	case http.StatusBadRequest:
		return apperrors.New(apperrors.KindValidation, "The backend rejected the submitted data").WithDetail(detail)
	case http.StatusUnauthorized:
		return apperrors.New(apperrors.KindSessionExpired, "Your session has expired, please sign in again").WithDetail(detail)
	case http.StatusForbidden:
		return apperrors.New(apperrors.KindPermission, "You are not allowed to perform this action").WithDetail(detail)
	case http.StatusNotFound:
		return apperrors.New(apperrors.KindNotFound, "The requested record no longer exists").WithDetail(detail)
	default:
		return apperrors.New(apperrors.KindNetwork, "The backend returned an unexpected error").WithDetail(detail)
	}
}

func errorDetail(status int, body []byte) string {
	var parsed cmsError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Sprintf("%d %s: %s", status, parsed.Error.Name, parsed.Error.Message)
	}
	return fmt.Sprintf("%d: %s", status, string(body))
}
