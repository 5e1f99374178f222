// Package portal is the client side of the intake API: a thin HTTP
// client plus a session object orchestrating capture, conversion,
// upload and wizard progression.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"intake_backend/internal/logger"
	"intake_backend/internal/models"
)

// ErrOverrideRequired signals an email collision: the caller must get
// explicit user confirmation and resubmit with the override flag.
var ErrOverrideRequired = errors.New("existing application found, override confirmation required")

// ErrServer wraps non-2xx responses.
var ErrServer = errors.New("server error")

// Client talks to the intake API. A zero auth token is fine for the
// public candidate routes; admin routes require Login first.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute, // conversions block their request
		},
	}
}

// do executes a request with a retry-once policy for aborted requests:
// a transient network interruption gets one rebuild-and-resend, any
// other failure propagates.
func (c *Client) do(ctx context.Context, method, path string, contentType string, body []byte) (*http.Response, error) {
	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		return req, nil
	}

	req, err := build()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err == nil {
		return resp, nil
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) || ctx.Err() != nil {
		return nil, err
	}

	// Aborted mid-flight: rebuild the request and retry exactly once
	logger.CtxWarn(ctx, "request aborted, retrying once", "path", path, "error", err.Error())
	req, err = build()
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

func (c *Client) decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrServer, resp.StatusCode, payload)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// LookupCandidate fetches a candidate by id or email (one of the two).
func (c *Client) LookupCandidate(ctx context.Context, id, email string) (*models.Candidate, error) {
	q := url.Values{}
	if id != "" {
		q.Set("id", id)
	}
	if email != "" {
		q.Set("email", email)
	}

	resp, err := c.do(ctx, http.MethodGet, "/api/v1/candidate?"+q.Encode(), "", nil)
	if err != nil {
		return nil, err
	}

	var candidate models.Candidate
	if err := c.decode(resp, &candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// SubmitBasicInfo sends step-1 fields and the resume as multipart.
// A 409 maps to ErrOverrideRequired.
func (c *Client) SubmitBasicInfo(ctx context.Context, name, email, mobile string, resumeName string, resumeData []byte, override bool) (*models.Candidate, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("name", name)
	_ = w.WriteField("email", email)
	_ = w.WriteField("mobile", mobile)
	if override {
		_ = w.WriteField("override", "true")
	}

	part, err := createFilePart(w, "resume", resumeName, resumeContentType(resumeName))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(resumeData); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/submit-info", w.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusConflict {
		resp.Body.Close()
		return nil, ErrOverrideRequired
	}

	var candidate models.Candidate
	if err := c.decode(resp, &candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// ConvertVideo sends a recorded clip for server-side normalization and
// returns the MP4 bytes.
func (c *Client) ConvertVideo(ctx context.Context, filename string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := createFilePart(w, "video", filename, "video/webm")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/convert-video", w.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrServer, resp.StatusCode, payload)
	}
	return io.ReadAll(resp.Body)
}

// UploadVideo attaches the final video bytes to a candidate record.
func (c *Client) UploadVideo(ctx context.Context, candidateID, filename string, data []byte, contentType string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("candidateId", candidateID)

	part, err := createFilePart(w, "video", filename, contentType)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/upload-video", w.FormDataContentType(), buf.Bytes())
	if err != nil {
		return "", err
	}

	var out struct {
		VideoURL string `json:"videoUrl"`
	}
	if err := c.decode(resp, &out); err != nil {
		return "", err
	}
	return out.VideoURL, nil
}

// FinalSubmit sets the submission timestamp on the candidate record.
func (c *Client) FinalSubmit(ctx context.Context, candidateID string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"candidateId":  candidateID,
		"acknowledged": true,
	})
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/final-submit", "application/json", payload)
	if err != nil {
		return err
	}

	var out struct {
		Success bool `json:"success"`
	}
	if err := c.decode(resp, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("%w: final submit not confirmed", ErrServer)
	}
	return nil
}

// Questions fetches the ordered question list.
func (c *Client) Questions(ctx context.Context) ([]models.Question, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/questions", "", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Questions []models.Question `json:"questions"`
	}
	if err := c.decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

// Login obtains an admin session token and caches it for reuse on
// subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/admin/login", "application/json", payload)
	if err != nil {
		return err
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.decode(resp, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

func createFilePart(w *multipart.Writer, field, filename, contentType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	return w.CreatePart(h)
}

func resumeContentType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(filename, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case strings.HasSuffix(filename, ".doc"):
		return "application/msword"
	default:
		return "application/octet-stream"
	}
}
