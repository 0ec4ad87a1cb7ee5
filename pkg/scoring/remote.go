package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/gateway/httpclient"
)

type remoteRequest struct {
	Age             float64 `json:"age"`
	Gender          string  `json:"gender"`
	Hypertension    int     `json:"hypertension"`
	HeartDisease    int     `json:"heart_disease"`
	EverMarried     string  `json:"ever_married"`
	WorkType        string  `json:"work_type"`
	ResidenceType   string  `json:"residence_type"`
	AvgGlucoseLevel float64 `json:"avg_glucose_level"`
	BMI             float64 `json:"bmi"`
	SmokingStatus   string  `json:"smoking_status"`
}

// RemoteAssessment is the response of the assessment service.
type RemoteAssessment struct {
	Score           int      `json:"score"`
	RiskLevel       string   `json:"risk_level"`
	RiskColor       string   `json:"risk_color"`
	Recommendations []string `json:"recommendations"`
}

// RemoteClient posts forms to an external assessment service whose score is
// authoritative when configured.
type RemoteClient struct {
	baseURL    string
	client     *http.Client
	attempts   int
	retryDelay time.Duration
}

func NewRemoteClient(baseURL string, timeout time.Duration, attempts int, retryDelay time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     httpclient.New(timeout),
		attempts:   attempts,
		retryDelay: retryDelay,
	}
}

func (c *RemoteClient) Assess(ctx context.Context, form models.FormData) (RemoteAssessment, error) {
	payload, err := json.Marshal(remoteRequest{
		Age:             valueOf(form.Age),
		Gender:          form.Gender,
		Hypertension:    form.Hypertension,
		HeartDisease:    form.HeartDisease,
		EverMarried:     form.EverMarried,
		WorkType:        form.WorkType,
		ResidenceType:   form.ResidenceType,
		AvgGlucoseLevel: valueOf(form.AvgGlucoseLevel),
		BMI:             valueOf(form.BMI),
		SmokingStatus:   form.SmokingStatus,
	})
	if err != nil {
		return RemoteAssessment{}, fmt.Errorf("marshal assessment request: %w", err)
	}

	var out RemoteAssessment
	err = httpclient.Retry(ctx, c.attempts, c.retryDelay, func() error {
		resp, err := c.post(ctx, payload)
		if err != nil {
			if httpclient.IsRetriable(err) {
				return err
			}
			return &httpclient.Permanent{Err: err}
		}
		out = resp
		return nil
	})
	if err != nil {
		logger.Log.WithError(err).WithField("url", c.baseURL).Warn("Remote assessment failed")
		return RemoteAssessment{}, fmt.Errorf("remote assessment: %w", err)
	}

	if out.Score < 0 {
		return RemoteAssessment{}, fmt.Errorf("remote assessment returned negative score %d", out.Score)
	}

	logger.Log.WithFields(logrus.Fields{
		"score":      out.Score,
		"risk_level": out.RiskLevel,
	}).Debug("Remote assessment received")
	return out, nil
}

func (c *RemoteClient) post(ctx context.Context, payload []byte) (RemoteAssessment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/health-data", bytes.NewReader(payload))
	if err != nil {
		return RemoteAssessment{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return RemoteAssessment{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return RemoteAssessment{}, &httpclient.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out RemoteAssessment
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return RemoteAssessment{}, fmt.Errorf("decode assessment response: %w", err)
	}
	return out, nil
}
