// Package ml calls the food recognition model served behind a Gradio app.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/metrics"
	nutrition "github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
)

// ErrEmptyPrediction is returned when the model answers without a label.
var ErrEmptyPrediction = errors.New("ml: empty prediction")

const upstreamName = "food_prediction"

// Client calls the food prediction endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the Gradio app at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type predictRequest struct {
	Data []string `json:"data"`
}

type labelOutput struct {
	Label       string `json:"label"`
	Confidences []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"confidences"`
}

type predictResponse struct {
	Data []labelOutput `json:"data"`
}

// PredictFood classifies the photo at imageURL. OtherOptions lists the
// remaining candidate labels in the model's order.
func (c *Client) PredictFood(ctx context.Context, imageURL string) (*nutrition.Prediction, error) {
	logger := logging.NewLogger(ctx)
	start := time.Now()

	pred, err := c.predict(ctx, imageURL)
	metrics.RecordUpstreamCall(upstreamName, time.Since(start), err)
	if err != nil {
		logger.LogError("ml.predict_food", err)
		return nil, err
	}

	logger.LogInfof("ml.predict_food", "predicted %q in %s", pred.Label, time.Since(start))
	return pred, nil
}

func (c *Client) predict(ctx context.Context, imageURL string) (*nutrition.Prediction, error) {
	body, err := json.Marshal(predictRequest{Data: []string{imageURL}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction service returned status %d: %s", resp.StatusCode, string(raw))
	}

	var out predictResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].Label == "" {
		return nil, ErrEmptyPrediction
	}

	label := out.Data[0]
	others := make([]string, 0, len(label.Confidences))
	for _, conf := range label.Confidences {
		if conf.Label != label.Label {
			others = append(others, conf.Label)
		}
	}

	return &nutrition.Prediction{Label: label.Label, OtherOptions: others}, nil
}
