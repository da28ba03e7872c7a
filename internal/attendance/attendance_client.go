package attendance

//go:generate mockgen -source=attendance_client.go -destination=mock/attendance_client_mock.go -package=mock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	attendanceerrors "go-presence/internal/attendance/errors"
	"go-presence/internal/shared/contextutil"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Client talks to the remote attendance service.
type Client interface {
	GetStatus(ctx context.Context, employeeID string) (Status, error)
	GetHistory(ctx context.Context, employeeID string) ([]Entry, error)
	SubmitPunch(ctx context.Context, req PunchRequest) (PunchReceipt, error)
}

type httpClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, hc *http.Client) Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  zap.L().Named("attendance.client"),
	}
}

func (c *httpClient) GetStatus(ctx context.Context, employeeID string) (Status, error) {
	code, body, err := c.do(ctx, http.MethodGet, c.endpoint("/attendance/status", employeeID), nil)
	if err != nil {
		return Status{}, err
	}

	var sb statusBody
	decodeErr := json.Unmarshal(body, &sb)
	if code >= 500 {
		if decodeErr == nil && sb.Message != "" {
			return Status{}, attendanceerrors.ErrStatusUnavailable.WithMessage(sb.Message)
		}
		return Status{}, attendanceerrors.ErrStatusUnavailable.WithCause(fmt.Errorf("status %d", code))
	}
	// 4xx with a status body is still an answer, e.g. 404 "not clocked in"
	if code < 200 || code > 299 {
		if decodeErr != nil || !sb.present() {
			return Status{}, attendanceerrors.ErrStatusUnavailable.WithCause(fmt.Errorf("status %d", code))
		}
	}
	if decodeErr != nil {
		return Status{}, attendanceerrors.ErrMalformedResponse.WithCause(decodeErr)
	}

	st := sb.evaluate()
	c.logger.Debug("status checked",
		zap.String("employee_id", employeeID),
		zap.Bool("clocked_in", st.ClockedIn),
		zap.String("signal", st.Signal),
	)
	return st, nil
}

func (c *httpClient) GetHistory(ctx context.Context, employeeID string) ([]Entry, error) {
	code, body, err := c.do(ctx, http.MethodGet, c.endpoint("/attendance/history", employeeID), nil)
	if err != nil {
		return nil, err
	}
	if code < 200 || code > 299 {
		var mb messageBody
		if json.Unmarshal(body, &mb) == nil && mb.Message != "" {
			return nil, attendanceerrors.ErrHistoryUnavailable.WithMessage(mb.Message)
		}
		return nil, attendanceerrors.ErrHistoryUnavailable.WithCause(fmt.Errorf("status %d", code))
	}

	raw, err := decodeHistory(body)
	if err != nil {
		return nil, attendanceerrors.ErrMalformedResponse.WithCause(err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, h := range raw {
		entries = append(entries, h.toEntry())
	}
	return entries, nil
}

// decodeHistory accepts {history: [...]}, {data: [...]} or a bare array.
func decodeHistory(body []byte) ([]historyEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty history body")
	}

	if trimmed[0] == '[' {
		var list []historyEntry
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var env historyEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	switch {
	case env.History != nil:
		return *env.History, nil
	case env.Data != nil:
		return *env.Data, nil
	}
	return nil, errors.New("history body has no history or data list")
}

func (c *httpClient) SubmitPunch(ctx context.Context, req PunchRequest) (PunchReceipt, error) {
	payload, err := json.Marshal(punchBody{
		EmployeeID: req.EmployeeID,
		CompanyID:  req.CompanyID,
		Type:       req.Direction,
		ClockIn:    req.Direction == ClockIn,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		return PunchReceipt{}, err
	}

	code, body, err := c.do(ctx, http.MethodPost, c.baseURL+"/attendance", payload)
	if err != nil {
		return PunchReceipt{}, err
	}

	var mb messageBody
	_ = json.Unmarshal(body, &mb)

	if code < 200 || code > 299 {
		msg := mb.Message
		if msg == "" {
			msg = "Failed to " + req.Direction.Label()
		}
		c.logger.Info("punch rejected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("direction", string(req.Direction)),
			zap.Int("status", code),
			zap.String("message", msg),
		)
		return PunchReceipt{}, attendanceerrors.PunchRejected(msg)
	}

	return PunchReceipt{StatusCode: code, Message: mb.Message}, nil
}

func (c *httpClient) endpoint(path, employeeID string) string {
	return c.baseURL + path + "?employee_id=" + url.QueryEscape(employeeID)
}

func (c *httpClient) do(ctx context.Context, method, target string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, attendanceerrors.ErrNetworkFailure.WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, attendanceerrors.ErrNetworkFailure.WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, attendanceerrors.ErrNetworkFailure.WithCause(err)
	}
	return resp.StatusCode, body, nil
}
