package transcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kurochkinivan/video_uploader/internal/domain"
)

const errorBodyLimit = 1 << 10

type HTTPConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// HTTPBackend is the remote transcoding service.
//
//	POST {base}/jobs            multipart: file, options -> {"id": "..."}
//	GET  {base}/jobs/{id}       -> {"status", "progress", "downloadUrl", "expiresAt", "error"}
//	GET  {downloadUrl}          -> processed file
type HTTPBackend struct {
	baseURL *url.URL
	token   string
	client  *http.Client
	stream  *http.Client
}

func NewHTTPBackend(cfg HTTPConfig) (*HTTPBackend, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid transcoder base url %q: %w", cfg.BaseURL, err)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid transcoder base url %q: unsupported scheme", cfg.BaseURL)
	}

	return &HTTPBackend{
		baseURL: base,
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout},
		// Downloads stream for as long as the body takes, only the headers are bounded.
		stream: &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: cfg.Timeout,
		}},
	}, nil
}

type submitResponse struct {
	ID string `json:"id"`
}

type statusResponse struct {
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	DownloadURL string     `json:"downloadUrl"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	Error       string     `json:"error"`
}

func (b *HTTPBackend) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	const op = "submit"

	f, err := os.Open(req.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to open %q: %w", req.FilePath, err)
	}
	defer f.Close()

	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)

	go func() {
		writer.CloseWithError(writeSubmitForm(form, f, req))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint("jobs"), body)
	if err != nil {
		body.Close()
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	var resp submitResponse
	if err := b.doJSON(ctx, op, b.client, httpReq, &resp); err != nil {
		body.Close()
		return "", err
	}

	if resp.ID == "" {
		return "", &domain.RejectedError{Op: op, StatusCode: http.StatusOK, Message: "response carries no job id"}
	}

	return resp.ID, nil
}

func writeSubmitForm(form *multipart.Writer, file io.Reader, req SubmitRequest) error {
	part, err := form.CreateFormFile("file", req.FileName)
	if err != nil {
		return err
	}

	if _, err := io.Copy(part, file); err != nil {
		return err
	}

	if len(req.Options) > 0 {
		if err := form.WriteField("options", string(req.Options)); err != nil {
			return err
		}
	}

	return form.Close()
}

func (b *HTTPBackend) PollStatus(ctx context.Context, jobID string) (domain.PollResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint("jobs/"+url.PathEscape(jobID)), nil)
	if err != nil {
		return domain.PollResult{}, fmt.Errorf("failed to build request: %w", err)
	}

	var resp statusResponse
	if err := b.doJSON(ctx, "poll", b.client, httpReq, &resp); err != nil {
		return domain.PollResult{}, err
	}

	status := domain.JobStatus(resp.Status)
	switch status {
	case domain.JobQueued, domain.JobProcessing, domain.JobCompleted, domain.JobFailed:
	default:
		return domain.PollResult{}, fmt.Errorf("poll: unknown job status %q", resp.Status)
	}

	return domain.PollResult{
		Status:      status,
		Progress:    min(max(resp.Progress, 0), domain.MaxProgress),
		DownloadRef: resp.DownloadURL,
		ExpiresAt:   resp.ExpiresAt,
		Error:       resp.Error,
	}, nil
}

func (b *HTTPBackend) Download(ctx context.Context, downloadRef string) (io.ReadCloser, error) {
	const op = "download"

	target, err := b.baseURL.Parse(downloadRef)
	if err != nil {
		return nil, fmt.Errorf("invalid download reference %q: %w", downloadRef, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := b.do(ctx, op, b.stream, httpReq)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

func (b *HTTPBackend) endpoint(path string) string {
	return b.baseURL.JoinPath(path).String()
}

func (b *HTTPBackend) doJSON(ctx context.Context, op string, client *http.Client, req *http.Request, out any) error {
	resp, err := b.do(ctx, op, client, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransientError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

// do sends req with the bearer token and sorts failures into transient
// (network, 5xx, 429) and rejected (other 4xx). On success the caller owns the body.
func (b *HTTPBackend) do(ctx context.Context, op string, client *http.Client, req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &domain.TransientError{Op: op, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	statusErr := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusRequestTimeout {
		return nil, &domain.TransientError{Op: op, Err: statusErr}
	}

	return nil, &domain.RejectedError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(msg)),
	}
}

// IsRejected reports whether err is a 4xx-class answer of the service.
func IsRejected(err error) bool {
	var re *domain.RejectedError
	return errors.As(err, &re)
}
