// Package adminclient is a typed client of the admin JSON API. Besides the
// raw calls it carries the screen-side contract of the back office: local
// stores that apply a mutation only after the server accepted it, deletes
// gated by a confirmation, and a session that notifies its subscribers.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"prep_admin_backend/internal/authoring"
	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/util"

	"github.com/pkg/errors"
)

// DefaultTimeout bounds every request unless the caller sets another client.
const DefaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	uploadMB   int64

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUploadLimit sets the document size checked before an upload is sent.
func WithUploadLimit(maxMB int64) Option {
	return func(c *Client) { c.uploadMB = maxMB }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		uploadMB:   10,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope is the {success,data,error,fields} body most endpoints answer with.
type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func statusKind(status int) util.ErrorKind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return util.KindValidation
	case http.StatusNotFound:
		return util.KindNotFound
	case http.StatusConflict:
		return util.KindConflict
	case http.StatusUnauthorized:
		return util.KindUnauthorized
	case http.StatusForbidden:
		return util.KindForbidden
	}
	return util.KindInternal
}

// decodeError turns a non-2xx answer into an *util.AppError carrying the
// server's display message.
func decodeError(resp *http.Response) error {
	var body envelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(raw, &body)
	msg := body.Error
	if msg == "" {
		msg = util.MsgLoadFailed
	}
	return &util.AppError{
		Kind:    statusKind(resp.StatusCode),
		Message: msg,
		Fields:  body.Fields,
		Err:     fmt.Errorf("%s: status %d", resp.Request.URL.Path, resp.StatusCode),
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send performs the request and decodes a 2xx body into out, which may be nil.
func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return util.WrapInternal(errors.Wrapf(err, "%s %s", req.Method, req.URL.Path), util.MsgLoadFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return util.WrapInternal(errors.Wrap(err, "decode response"), util.MsgLoadFailed)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(buf)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// data calls an endpoint answering with the envelope and decodes its data.
func (c *Client) data(ctx context.Context, method, path string, in, out interface{}) error {
	var env envelope
	if err := c.doJSON(ctx, method, path, in, &env); err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return util.WrapInternal(errors.Wrap(err, "decode data"), util.MsgLoadFailed)
	}
	return nil
}

type loginResponse struct {
	Token   string         `json:"token"`
	Profile *model.Profile `json:"profile"`
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Profile, error) {
	var out loginResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.data(ctx, http.MethodPost, "/api/login", in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return out.Profile, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.data(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := c.data(ctx, http.MethodGet, "/api/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ExerciseQuery filters the exercise list on the server. Empty fields and
// "all" are unfiltered.
type ExerciseQuery struct {
	ExerciseType    string
	DifficultyLevel string
	Search          string
}

func (q ExerciseQuery) encode() string {
	v := url.Values{}
	if q.ExerciseType != "" {
		v.Set("exercise_type", q.ExerciseType)
	}
	if q.DifficultyLevel != "" {
		v.Set("difficulty_level", q.DifficultyLevel)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListExercises(ctx context.Context, q ExerciseQuery) ([]model.Exercise, error) {
	var out struct {
		Exercises []model.Exercise `json:"exercises"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/exercises"+q.encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Exercises, nil
}

func (c *Client) GetExercise(ctx context.Context, id uint) (*model.Exercise, error) {
	var out struct {
		Exercise model.Exercise `json:"exercise"`
	}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/exercises/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Exercise, nil
}

// SaveExercise creates the exercise when id is 0 and updates it otherwise.
// The payload is validated first; an invalid payload never leaves the process.
func (c *Client) SaveExercise(ctx context.Context, id uint, payload authoring.SavePayload) (*model.Exercise, error) {
	if err := payload.Validate(); err != nil {
		return nil, util.AsAppError(err)
	}
	method, path := http.MethodPost, "/api/exercises"
	if id != 0 {
		method, path = http.MethodPut, fmt.Sprintf("/api/exercises/%d", id)
	}
	var out struct {
		Exercise model.Exercise `json:"exercise"`
	}
	if err := c.doJSON(ctx, method, path, payload, &out); err != nil {
		return nil, err
	}
	return &out.Exercise, nil
}

func (c *Client) SetExerciseActive(ctx context.Context, id uint, active bool) (*model.Exercise, error) {
	var out struct {
		Exercise model.Exercise `json:"exercise"`
	}
	path := fmt.Sprintf("/api/exercises/%d/toggle-status", id)
	if err := c.doJSON(ctx, http.MethodPatch, path, map[string]bool{"is_active": active}, &out); err != nil {
		return nil, err
	}
	return &out.Exercise, nil
}

func (c *Client) DeleteExercise(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/exercises/%d", id), nil, nil)
}

// UploadExerciseFile sends a .docx or .pdf source document and returns its
// public URL. The declared type and size are checked before any byte is sent.
func (c *Client) UploadExerciseFile(ctx context.Context, filename, contentType string, size int64, content io.Reader) (string, error) {
	if err := util.DocumentRule(c.uploadMB).CheckDeclared(contentType, size); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return "", errors.Wrap(err, "create form part")
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", errors.Wrap(err, "read upload")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "close form")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/exercises/upload-file", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	var out struct {
		Data struct {
			PublicURL string `json:"publicUrl"`
		} `json:"data"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.Data.PublicURL, nil
}

// UserQuery pages through the user list. Empty filters match everything.
type UserQuery struct {
	Role     string
	Course   string
	Search   string
	Page     int
	PageSize int
}

// UserPage is one page of the user list.
type UserPage struct {
	List     []model.Profile `json:"list"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	From     int             `json:"from"`
	To       int             `json:"to"`
}

func (c *Client) ListUsers(ctx context.Context, q UserQuery) (*UserPage, error) {
	v := url.Values{}
	if q.Role != "" {
		v.Set("role", q.Role)
	}
	if q.Course != "" {
		v.Set("course", q.Course)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", fmt.Sprint(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", fmt.Sprint(q.PageSize))
	}
	path := "/api/users/list"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var page UserPage
	if err := c.data(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) SetUserActive(ctx context.Context, id uint, active bool) (*model.Profile, error) {
	var p model.Profile
	path := fmt.Sprintf("/api/users/%d/toggle-status", id)
	if err := c.data(ctx, http.MethodPatch, path, map[string]bool{"is_active": active}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.data(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil)
}
